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

// closingCmd holds the flags for the 'closing' subcommand.
type closingCmd struct {
	output
}

func (*closingCmd) Name() string     { return "closing" }
func (*closingCmd) Synopsis() string { return "list realized gains per closing trade" }
func (*closingCmd) Usage() string {
	return `ibtax closing [-format md|csv|xlsx] [-o <file>] <trade file>...

  Lists every closing trade with the lots it closed, then the short positions
  still open. This is the layout of the tax declaration.
`
}

func (c *closingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "md", "Output format (md, csv, xlsx)")
	f.StringVar(&c.path, "o", "", "Output file. Defaults to stdout.")
}

func (c *closingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	report, err := loadReport(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}
	err = c.write(
		func() string { return renderer.CloseFirstMarkdown(report) },
		func(w io.Writer) error { return export.WriteCloseFirstCSV(w, report) },
		func(w io.Writer) error { return export.WriteCloseFirstXLSX(w, report) },
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing gains: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
