package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

// printMarkdown prints markdown to stdout, rendered for the terminal unless -raw is set.
func printMarkdown(md string) {
	if *raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// output writes a report in format "md", "csv" or "xlsx" to the file path,
// or to stdout if path is empty. A workbook is never written to stdout.
type output struct {
	format string
	path   string
}

func (o *output) check() error {
	switch o.format {
	case "md", "csv":
		return nil
	case "xlsx":
		if o.path == "" {
			return fmt.Errorf("format xlsx needs an output file (-o)")
		}
		return nil
	}
	return fmt.Errorf("unknown format %q, want md, csv or xlsx", o.format)
}

func (o *output) write(md func() string, csv, xlsx func(io.Writer) error) error {
	if o.path == "" {
		if o.format == "md" {
			printMarkdown(md())
			return nil
		}
		return csv(os.Stdout)
	}

	f, err := os.Create(o.path)
	if err != nil {
		return err
	}
	switch o.format {
	case "md":
		_, err = io.WriteString(f, md())
	case "xlsx":
		err = xlsx(f)
	default:
		err = csv(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
