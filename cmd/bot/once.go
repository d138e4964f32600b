package bot

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/pricecast/cmd/env"
	"github.com/sig-0/pricecast/publish"
	"github.com/sig-0/pricecast/schedule"
)

// onceCfg wraps the once configuration
type onceCfg struct {
	baseCfg

	dryRun bool
}

// NewOnceCmd creates the once command
func NewOnceCmd() *ffcli.Command {
	cfg := &onceCfg{}

	fs := flag.NewFlagSet("once", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "once",
		ShortUsage: "once [flags]",
		ShortHelp:  "Runs a single resolution cycle",
		LongHelp:   "Resolves every registered category once, and publishes the report (or prints it, with -dry-run)",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *onceCfg) registerFlags(fs *flag.FlagSet) {
	c.baseCfg.registerFlags(fs)

	fs.BoolVar(
		&c.dryRun,
		"dry-run",
		false,
		"flag indicating if the report should be printed instead of published",
	)
}

func (c *onceCfg) exec(ctx context.Context, _ []string) error {
	logger, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	reg, err := c.loadRegistry()
	if err != nil {
		return err
	}

	store, err := c.newStorage()
	if err != nil {
		return err
	}

	var publisher publish.Publisher = publish.NewWriter(os.Stdout)

	if !c.dryRun {
		if c.channel == "" {
			return errMissingChannel
		}

		publisher, err = publish.NewTelegram(
			c.botToken,
			c.channel,
			publish.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("unable to create publisher, %w", err)
		}
	}

	scheduler, err := schedule.New(
		reg,
		c.newResolver(logger),
		c.newComposer(),
		publisher,
		store,
		schedule.WithLogger(logger),
		schedule.WithInterval(c.interval),
	)
	if err != nil {
		return fmt.Errorf("unable to create scheduler, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancelFn()

	cr, err := scheduler.RunOnce(runCtx)
	if err != nil {
		return fmt.Errorf("unable to complete cycle, %w", err)
	}

	for _, res := range cr.Resolutions {
		for _, attempt := range res.Attempts {
			logger.Debug(
				"source attempt",
				"category", res.Category.ID,
				"source", attempt.Source,
				"status", attempt.Status.String(),
				"candidates", len(attempt.Candidates),
				"elapsed", attempt.Elapsed.String(),
			)
		}
	}

	return nil
}
