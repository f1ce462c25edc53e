package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/capgains/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `ibtax topic [<topic>...]

  Shows the documentation of the given topics, "*" for all. Without topic,
  shows the readme and the list of topics.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var doc string
	var err error
	if topics := f.Args(); len(topics) > 0 {
		doc, err = docs.GetTopics(topics...)
	} else {
		doc, err = topicIndex()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicIndex returns the readme followed by the list of topics, each with the
// title of its page.
func topicIndex() (string, error) {
	readme, err := docs.GetTopic("readme")
	if err != nil {
		return "", err
	}
	topics, err := docs.GetAllTopics()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(readme)
	b.WriteString("\n## Topics\n\n")
	for _, topic := range topics {
		content, err := docs.GetTopic(topic)
		if err != nil {
			return "", err
		}
		first, _, _ := strings.Cut(content, "\n")
		fmt.Fprintf(&b, "* `ibtax topic %s`: %s\n", topic, strings.TrimPrefix(first, "# "))
	}
	return b.String(), nil
}
