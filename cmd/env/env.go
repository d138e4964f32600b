package env

// Prefix is the prefix of every environment variable read by the CLI,
// ex. PRICECAST_BOT_TOKEN for the -bot-token flag
const Prefix = "PRICECAST"
