package registry

import (
	"context"
	"flag"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/pricecast/registry"
)

// newDumpCmd creates the registry dump command
func newDumpCmd() *ffcli.Command {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)

	return &ffcli.Command{
		Name:       "dump",
		ShortUsage: "registry dump > registry.toml",
		LongHelp:   "Prints the embedded default registry, as a starting point for a custom one",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			_, err := os.Stdout.Write(registry.DefaultTOML())

			return err
		},
	}
}
