package bot

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/pricecast/cmd/env"
	"github.com/sig-0/pricecast/publish"
)

// NewPingCmd creates the ping command
func NewPingCmd() *ffcli.Command {
	cfg := &baseCfg{}

	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "ping",
		ShortUsage: "ping [flags]",
		ShortHelp:  "Publishes a test message",
		LongHelp:   "Publishes a test message to the channel, to verify the bot token and channel",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			return execPing(ctx, cfg)
		},
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func execPing(ctx context.Context, cfg *baseCfg) error {
	logger, closeLog, err := cfg.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.channel == "" {
		return errMissingChannel
	}

	publisher, err := publish.NewTelegram(
		cfg.botToken,
		cfg.channel,
		publish.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("unable to create publisher, %w", err)
	}

	pingCtx, cancelFn := context.WithTimeout(ctx, 30*time.Second)
	defer cancelFn()

	if err := publisher.Publish(pingCtx, cfg.newComposer().Ping(time.Now())); err != nil {
		return err
	}

	logger.Info("test message published")

	return nil
}
