package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/capgains/export"
	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
)

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct {
	output
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list lots in matching order" }
func (*lotsCmd) Usage() string {
	return `ibtax lots [-format md|csv|xlsx] [-o <file>] <trade file>...

  Matches the trades first-in first-out and lists every lot next to the trade
  that closed it, with its open and close profit.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "md", "Output format (md, csv, xlsx)")
	f.StringVar(&c.path, "o", "", "Output file. Defaults to stdout.")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	report, err := loadReport(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing lots: %v\n", err)
		return subcommands.ExitFailure
	}
	err = c.write(
		func() string { return renderer.LotsMarkdown(report) },
		func(w io.Writer) error { return export.WriteLotsCSV(w, report) },
		func(w io.Writer) error { return export.WriteLotsXLSX(w, report) },
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing lots: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
