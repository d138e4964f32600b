package registry

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/pricecast/registry"
)

// newCheckCmd creates the registry check command
func newCheckCmd() *ffcli.Command {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	return &ffcli.Command{
		Name:       "check",
		ShortUsage: "registry check [registry.toml]",
		LongHelp:   "Validates a registry file (the embedded default if omitted), and lists its categories",
		FlagSet:    fs,
		Exec: func(_ context.Context, args []string) error {
			return execCheck(args, os.Stdout)
		},
	}
}

func execCheck(args []string, out io.Writer) error {
	var (
		reg *registry.Registry
		err error
	)

	switch len(args) {
	case 0:
		reg, err = registry.Default()
	case 1:
		reg, err = registry.Read(args[0])
	default:
		return flag.ErrHelp
	}

	if err != nil {
		return fmt.Errorf("invalid registry: %w", err)
	}

	return writeTable(out, reg.Categories())
}

func writeTable(out io.Writer, categories []registry.Category) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ID\tGROUP\tUNIT\tRANGE\tSOURCES")

	for _, c := range categories {
		names := make([]string, 0, len(c.Sources))
		for _, s := range c.Sources {
			names = append(names, s.Name)
		}

		_, _ = fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s-%s\t%s\n",
			c.ID,
			c.Group,
			c.Unit,
			c.Min.String(),
			c.Max.String(),
			strings.Join(names, ","),
		)
	}

	return w.Flush()
}
