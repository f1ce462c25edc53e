package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/capgains"
)

// LotsMarkdown renders the lots of a report, in matching order, each lot next
// to the trade that closed it.
func LotsMarkdown(report *capgains.Report) string {
	var b strings.Builder
	title(&b, "Lots", report.Year)

	if len(report.Lots) == 0 {
		fmt.Fprintln(&b, "No lots.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Opened | Symbol | Side | Quantity | Open Price | Closed | Close Price | Open Profit | Close Profit |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|:---|---:|---:|---:|")
	for _, l := range report.Lots {
		o := l.Opening
		closed, closePrice := "open", ""
		if c := l.Closing; c != nil {
			closed, closePrice = day(c.Time), c.PriceEUR.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			day(o.Time),
			o.Symbol,
			o.Side,
			l.Quantity,
			o.PriceEUR,
			closed,
			closePrice,
			openProfit(l, report.Year),
			closeProfit(l, report.Year),
		)
	}
	totals := report.Totals()
	fmt.Fprintf(&b, "| **%s** | | | | | | | **%s** | **%s** |\n",
		"Total",
		totals.Open.SignedString(),
		totals.Close.SignedString(),
	)
	fmt.Fprintf(&b, "\nRealized: %s\n", totals.Realized().SignedString())
	return b.String()
}
