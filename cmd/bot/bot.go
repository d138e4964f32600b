package bot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/report"
	"github.com/sig-0/pricecast/resolve"
	"github.com/sig-0/pricecast/storage"
	"github.com/sig-0/pricecast/storage/file"
	"github.com/sig-0/pricecast/storage/memory"
)

var (
	errMissingChannel = errors.New("missing channel (-channel)")
	errInvalidLevel   = errors.New("invalid log level")
)

// baseCfg wraps the configuration shared by the bot commands
type baseCfg struct {
	botToken string
	channel  string

	registryPath string
	snapshotPath string
	categories   string

	digits      string
	placeholder string
	hashtags    string

	userAgent   string
	concurrency int
	timeout     time.Duration
	interval    time.Duration

	logLevel string
	logFile  string
}

func (c *baseCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.botToken,
		"bot-token",
		"",
		"the Telegram bot token",
	)

	fs.StringVar(
		&c.channel,
		"channel",
		"",
		"the target channel (@name) or numeric chat ID",
	)

	fs.StringVar(
		&c.registryPath,
		"registry",
		"",
		"the path to the source registry TOML, if any (embedded default otherwise)",
	)

	fs.StringVar(
		&c.snapshotPath,
		"snapshot",
		"",
		"the path of the latest prices JSON snapshot, if any (in-memory otherwise)",
	)

	fs.StringVar(
		&c.categories,
		"categories",
		"",
		"comma-separated category IDs to resolve (all by default)",
	)

	fs.StringVar(
		&c.digits,
		"digits",
		report.DigitsLatin,
		"the report digits, en or fa",
	)

	fs.StringVar(
		&c.placeholder,
		"placeholder",
		report.DefaultPlaceholder,
		"the text shown for unavailable prices",
	)

	fs.StringVar(
		&c.hashtags,
		"hashtags",
		"",
		"comma-separated hashtags appended to every report",
	)

	fs.StringVar(
		&c.userAgent,
		"user-agent",
		resolve.DefaultUserAgent,
		"the User-Agent header sent to sources",
	)

	fs.IntVar(
		&c.concurrency,
		"concurrency",
		1,
		"how many categories are resolved at once",
	)

	fs.DurationVar(
		&c.timeout,
		"timeout",
		resolve.DefaultTimeout,
		"the per-source request timeout",
	)

	fs.DurationVar(
		&c.interval,
		"interval",
		report.DefaultInterval,
		"the time between two price reports",
	)

	fs.StringVar(
		&c.logLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)

	fs.StringVar(
		&c.logFile,
		"log-file",
		"",
		"the path of a log file, written alongside stdout",
	)
}

// newLogger creates the CLI logger. The returned close callback
// releases the log file, if any
func (c *baseCfg) newLogger() (*slog.Logger, func(), error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", errInvalidLevel, c.logLevel)
	}

	var (
		out     io.Writer = os.Stdout
		closeFn           = func() {}
	)

	if c.logFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("unable to create log directory: %w", err)
		}

		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open log file: %w", err)
		}

		out = io.MultiWriter(os.Stdout, f)
		closeFn = func() {
			_ = f.Close()
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	return logger, closeFn, nil
}

// loadRegistry reads the source registry, narrowed down to the selected categories
func (c *baseCfg) loadRegistry() (*registry.Registry, error) {
	var (
		reg *registry.Registry
		err error
	)

	if c.registryPath != "" {
		reg, err = registry.Read(c.registryPath)
	} else {
		reg, err = registry.Default()
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load registry: %w", err)
	}

	if c.categories == "" {
		return reg, nil
	}

	filtered, err := reg.Filter(splitList(c.categories))
	if err != nil {
		return nil, fmt.Errorf("unable to select categories: %w", err)
	}

	return filtered, nil
}

func (c *baseCfg) newResolver(logger *slog.Logger) *resolve.Resolver {
	fetcher := resolve.NewHTTPFetcher(
		resolve.WithTimeout(c.timeout),
		resolve.WithUserAgent(c.userAgent),
	)

	return resolve.New(
		fetcher,
		resolve.WithLogger(logger),
		resolve.WithConcurrency(c.concurrency),
	)
}

func (c *baseCfg) newComposer() *report.Composer {
	return report.NewComposer(report.Options{
		Digits:      c.digits,
		Placeholder: c.placeholder,
		Hashtags:    splitList(c.hashtags),
		Interval:    c.interval,
	})
}

func (c *baseCfg) newStorage() (storage.Storage, error) {
	if c.snapshotPath == "" {
		return memory.NewStorage(), nil
	}

	store, err := file.NewStorage(c.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("unable to create snapshot storage: %w", err)
	}

	return store, nil
}

// logLatest logs the snapshot left by a previous run, if any
func logLatest(ctx context.Context, store storage.Storage, logger *slog.Logger) {
	snap, err := store.LatestSnapshot(ctx)
	if err != nil {
		logger.Warn(
			"unable to read previous snapshot",
			"err", err,
		)

		return
	}

	if snap == nil {
		return
	}

	logger.Info(
		"found previous snapshot",
		"id", snap.ID,
		"timestamp", snap.Timestamp.String(),
		"prices", len(snap.Prices),
	)
}

func splitList(s string) []string {
	var out []string

	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
