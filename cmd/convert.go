package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type convertCmd struct {
	path string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert trade files to JSONL" }
func (*convertCmd) Usage() string {
	return `ibtax convert [-o <file>] <trade file>...

  Reads trades from any supported file and writes them as JSONL, one trade per
  line, in the order they were read.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "o", "", "Output file. Defaults to stdout.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger, err := NewLogger(*Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	trades, err := loadTrades(logger, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := writeTrades(c.path, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	logger.Info("trades converted", zap.Int("trades", len(trades)), zap.String("output", c.path))
	return subcommands.ExitSuccess
}

// writeTrades writes trades as JSONL to the file path, or to stdout if path is
// empty.
func writeTrades(path string, trades []*capgains.Trade) error {
	if path == "" {
		return capgains.EncodeTrades(os.Stdout, trades)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = capgains.EncodeTrades(f, trades)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
