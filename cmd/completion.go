package cmd

import (
	"flag"

	"github.com/etnz/capgains/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// tradeFiles predicts the files ibtax can read.
var tradeFiles = predict.Or(predict.Files("*.xml"), predict.Files("*.jsonl"), predict.Files("*.json"))

// Completion returns the shell completion of the commander: its global flags
// and the flags of every registered subcommand.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs), Args: tradeFiles}
		if sc.Name() == "topic" {
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(append(topics, "readme", "*"))
		}
		root.Sub[sc.Name()] = sub
	})
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case isBool(f):
			m[f.Name] = nil
		case f.Name == "format":
			m[f.Name] = predict.Set{"md", "csv", "xlsx"}
		case f.Name == "o":
			m[f.Name] = predict.Files("*")
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
