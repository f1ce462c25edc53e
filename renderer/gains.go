package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/capgains"
)

func GainsMarkdown(report *capgains.Report) string {
	var b strings.Builder
	title(&b, "Capital Gains Report", report.Year)

	fmt.Fprint(&b, "## Gains per Symbol\n\n")
	fmt.Fprintln(&b, "| Symbol | Open Profit | Close Profit | Realized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")

	for _, g := range report.GainsBySymbol() {
		if g.Totals.Open.IsZero() && g.Totals.Close.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			g.Symbol,
			g.Totals.Open.SignedString(),
			g.Totals.Close.SignedString(),
			g.Totals.Realized().SignedString(),
		)
	}
	totals := report.Totals()
	fmt.Fprintf(&b, "| **%s** | **%s** | **%s** | **%s** |\n",
		"Total",
		totals.Open.SignedString(),
		totals.Close.SignedString(),
		totals.Realized().SignedString(),
	)

	return b.String()
}
