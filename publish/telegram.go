package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	ErrInvalidChannel = errors.New("invalid channel identifier")
	ErrMissingToken   = errors.New("missing bot token")
)

// sender is the subset of the bot API used for publishing
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram publishes messages to a Telegram channel or chat
type Telegram struct {
	bot    sender
	logger *slog.Logger

	// channel is set for public channels (@name), chatID otherwise
	channel string
	chatID  int64
}

type TelegramOption func(t *telegramConfig)

type telegramConfig struct {
	logger   *slog.Logger
	endpoint string
}

// WithLogger specifies the logger for the publisher
func WithLogger(l *slog.Logger) TelegramOption {
	return func(c *telegramConfig) {
		c.logger = l
	}
}

// WithEndpoint overrides the bot API endpoint format,
// ex. "https://api.telegram.org/bot%s/%s"
func WithEndpoint(endpoint string) TelegramOption {
	return func(c *telegramConfig) {
		c.endpoint = endpoint
	}
}

// NewTelegram authenticates the bot and creates a new Telegram publisher.
// The channel is either a public "@name" or a numeric chat ID
func NewTelegram(token, channel string, opts ...TelegramOption) (*Telegram, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &telegramConfig{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		endpoint: tgbotapi.APIEndpoint,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, cfg.endpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot API client: %w", err)
	}

	cfg.logger.Info(
		"authorized bot",
		"username", bot.Self.UserName,
	)

	return newTelegram(bot, channel, cfg.logger)
}

func newTelegram(bot sender, channel string, logger *slog.Logger) (*Telegram, error) {
	t := &Telegram{
		bot:    bot,
		logger: logger,
	}

	channel = strings.TrimSpace(channel)

	switch {
	case strings.HasPrefix(channel, "@") && len(channel) > 1:
		t.channel = channel
	default:
		id, err := strconv.ParseInt(channel, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
		}

		t.chatID = id
	}

	return t, nil
}

func (t *Telegram) Publish(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	msg := t.message(text)

	sent, err := t.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	t.logger.Debug(
		"message published",
		"message_id", sent.MessageID,
	)

	return nil
}

func (t *Telegram) message(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig

	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}

	msg.DisableWebPagePreview = true

	return msg
}
