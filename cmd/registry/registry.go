package registry

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"
)

// NewRegistryCmd creates the registry subcommand
func NewRegistryCmd() *ffcli.Command {
	fs := flag.NewFlagSet("registry", flag.ExitOnError)

	cmd := &ffcli.Command{
		Name:       "registry",
		ShortUsage: "registry <subcommand> [flags] [<arg>...]",
		LongHelp:   "Manages the price source registry",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		newCheckCmd(),
		newDumpCmd(),
	}

	return cmd
}
