package bot

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/pricecast/cmd/env"
	"github.com/sig-0/pricecast/publish"
	"github.com/sig-0/pricecast/schedule"
	"github.com/sig-0/pricecast/server"
	"github.com/sig-0/pricecast/server/config"
)

// runCfg wraps the run configuration
type runCfg struct {
	baseCfg

	listenAddress    string
	serverConfigPath string

	cycleTimeout time.Duration
	maxFailures  int
	announce     bool
}

// NewRunCmd creates the run command
func NewRunCmd() *ffcli.Command {
	cfg := &runCfg{}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "run [flags]",
		ShortHelp:  "Publishes price reports at a fixed interval",
		LongHelp:   "Resolves every registered category at a fixed interval, and publishes the report to the channel",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *runCfg) registerFlags(fs *flag.FlagSet) {
	c.baseCfg.registerFlags(fs)

	fs.StringVar(
		&c.listenAddress,
		"listen",
		"",
		"the IP:PORT of the status API, if any",
	)

	fs.StringVar(
		&c.serverConfigPath,
		"server-config",
		"",
		"the path to the status API TOML configuration, if any",
	)

	fs.DurationVar(
		&c.cycleTimeout,
		"cycle-timeout",
		schedule.DefaultCycleTimeout,
		"the upper bound of a single resolution cycle",
	)

	fs.IntVar(
		&c.maxFailures,
		"max-failures",
		schedule.DefaultMaxFailures,
		"consecutive failed cycles before a degraded alert is sent",
	)

	fs.BoolVar(
		&c.announce,
		"announce",
		false,
		"flag indicating if a start message should be published",
	)
}

func (c *runCfg) exec(ctx context.Context, _ []string) error {
	logger, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if c.channel == "" {
		return errMissingChannel
	}

	reg, err := c.loadRegistry()
	if err != nil {
		return err
	}

	logger.Info(
		"loaded registry",
		"categories", len(reg.Categories()),
	)

	store, err := c.newStorage()
	if err != nil {
		return err
	}

	logLatest(ctx, store, logger)

	publisher, err := publish.NewTelegram(
		c.botToken,
		c.channel,
		publish.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("unable to create publisher, %w", err)
	}

	scheduler, err := schedule.New(
		reg,
		c.newResolver(logger),
		c.newComposer(),
		publisher,
		store,
		schedule.WithLogger(logger),
		schedule.WithInterval(c.interval),
		schedule.WithCycleTimeout(c.cycleTimeout),
		schedule.WithMaxFailures(c.maxFailures),
		schedule.WithAnnounce(c.announce),
	)
	if err != nil {
		return fmt.Errorf("unable to create scheduler, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the status API, if enabled
	if c.listenAddress != "" || c.serverConfigPath != "" {
		serverCfg := config.DefaultConfig()

		if c.serverConfigPath != "" {
			serverCfg, err = config.Read(c.serverConfigPath)
			if err != nil {
				return fmt.Errorf("unable to read server config, %w", err)
			}
		}

		if c.listenAddress != "" {
			serverCfg.ListenAddress = c.listenAddress
		}

		s, err := server.New(
			store,
			reg,
			server.WithLogger(logger),
			server.WithConfig(serverCfg),
			server.WithHealth(scheduler.Health),
		)
		if err != nil {
			return fmt.Errorf("unable to create server, %w", err)
		}

		group.Go(func() error {
			return s.Serve(gCtx)
		})
	}

	// Start the cycle loop
	group.Go(func() error {
		return scheduler.Start(gCtx)
	})

	return group.Wait()
}
