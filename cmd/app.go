// Package cmd implements the ibtax command line application.
package cmd

import (
	"flag"
	"os"

	"github.com/etnz/capgains"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&lotsCmd{}, "reports")
	c.Register(&closingCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&reviewCmd{}, "reports")

	c.Register(&exportCmd{}, "files")
	c.Register(&convertCmd{}, "files")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	Verbose  = flag.Bool("v", false, "Verbose logging")
	yearFlag = flag.String("year", "", "Tax year to report, every year if empty. Defaults to $"+EnvYear)
	jsonPath = flag.String("json-path", "", "JSONPath selecting the trades of .json files. Defaults to $"+EnvJSONPath+" or "+capgains.DefaultTradesPath)
	raw      = flag.Bool("raw", false, "Print markdown reports as is, without terminal rendering")
)

// Year returns the tax year selected by the -year flag or the environment.
func Year() (int, error) {
	s := *yearFlag
	if s == "" {
		s = os.Getenv(EnvYear)
	}
	return capgains.ParseYear(s)
}

// JSONPath returns the JSONPath expression selecting trades in JSON documents.
func JSONPath() string {
	if *jsonPath != "" {
		return *jsonPath
	}
	if p := os.Getenv(EnvJSONPath); p != "" {
		return p
	}
	return capgains.DefaultTradesPath
}

// NewLogger returns the application logger, writing to stderr. verbose
// enables debug messages.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
