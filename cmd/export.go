package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains/export"
	"github.com/google/subcommands"
)

type exportCmd struct {
	path string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export trades and lots to a SQLite database" }
func (*exportCmd) Usage() string {
	return `ibtax export [-o <database>] <trade file>...

  Writes the trades and lots of the report into the tables 'trades' and 'lots'
  of a SQLite database. Existing tables are replaced.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "o", "ibtax.db", "SQLite database file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := loadReport(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing lots: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := export.WriteSQLite(ctx, c.path, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting to %q: %v\n", c.path, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully exported %d lots to %s\n", len(report.Lots), c.path)
	return subcommands.ExitSuccess
}
