// Package config holds the status API configuration
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/pelletier/go-toml"
)

const DefaultListenAddress = "0.0.0.0:8090"

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidCORSConfig    = errors.New("invalid CORS config")
)

// Config defines the status API configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The address at which the status API is served,
	// as <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// DefaultConfig returns the default status API configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
	}
}

// ValidateConfig validates the status API configuration
func ValidateConfig(config *Config) error {
	if err := validateListenAddress(config.ListenAddress); err != nil {
		return err
	}

	// Validate the CORS config, if any
	if config.CORSConfig != nil && len(config.CORSConfig.AllowedOrigins) == 0 {
		return fmt.Errorf("%w: no allowed origins", ErrInvalidCORSConfig)
	}

	return nil
}

// validateListenAddress checks the address is an IP and a port.
// Port 0 picks a free port
func validateListenAddress(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListenAddress, err)
	}

	if net.ParseIP(host) == nil {
		return fmt.Errorf("%w: %q is not an IP", ErrInvalidListenAddress, host)
	}

	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("%w: port %q", ErrInvalidListenAddress, port)
	}

	return nil
}

// Read reads the configuration from the given path.
// Missing values are taken from the default configuration
func Read(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// Fill in the defaults
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if cfg.CORSConfig == nil {
		cfg.CORSConfig = DefaultCORSConfig()
	}

	return &cfg, nil
}
