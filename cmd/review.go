package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	model    string
	question string
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "review realized gains with Gemini" }
func (*reviewCmd) Usage() string {
	return `ibtax review [-model <model>] [-q <question>] <trade file>...

  Starts an interactive session with a tax advisor that reads the report.
  The Gemini API key is read from $GEMINI_API_KEY.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", os.Getenv(EnvModel), "Gemini model. Defaults to $"+EnvModel+" or "+agent.DefaultModel)
	f.StringVar(&c.question, "q", "Review my realized gains.", "First question to the advisor")
}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := loadReport(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}

	advisor, err := agent.NewAdvisor(c.model, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, printMarkdown, advisor)
	if err := a.Run(ctx, client, c.question); err != nil {
		fmt.Fprintln(os.Stderr, "Review failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
