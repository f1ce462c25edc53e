package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/capgains"
)

// CloseFirstMarkdown renders the close-first view of a report: one section row
// per closing trade followed by the lots it closed, then the short positions
// still open.
func CloseFirstMarkdown(report *capgains.Report) string {
	var b strings.Builder
	view := report.CloseFirst()
	title(&b, "Realized Gains", report.Year)

	if len(view.Groups) == 0 {
		fmt.Fprint(&b, "No position was closed.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Symbol | Trade | Quantity | Price | Profit |")
		fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
		for _, g := range view.Groups {
			c := g.Closing
			fmt.Fprintf(&b, "| **%s** | **%s** | **%s %s** | **%s** | **%s** | **%s** |\n",
				day(c.Time), c.Symbol, c.Side, c.ID, g.Quantity(), c.PriceEUR, g.Profit().SignedString())
			for _, l := range g.Lots {
				o := l.Opening
				fmt.Fprintf(&b, "| %s | %s | %s %s | %s | %s | %s |\n",
					day(o.Time), o.Symbol, o.Side, o.ID, l.Quantity, o.PriceEUR, openProfit(l, view.Year))
			}
		}
		fmt.Fprintln(&b)
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Open Short Positions\n\n")
		fmt.Fprintln(w, "| Date | Symbol | Trade | Quantity | Price | Profit |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|")
		for _, l := range view.OpenShorts {
			o := l.Opening
			fmt.Fprintf(w, "| %s | %s | %s %s | %s | %s | %s |\n",
				day(o.Time), o.Symbol, o.Side, o.ID, l.Quantity, o.PriceEUR, openProfit(l, view.Year))
		}
		fmt.Fprintln(w)
		return len(view.OpenShorts) > 0
	})

	totals := view.Totals()
	fmt.Fprintf(&b, "Open profit: %s\n\n", totals.Open.SignedString())
	fmt.Fprintf(&b, "Close profit: %s\n\n", totals.Close.SignedString())
	fmt.Fprintf(&b, "**Realized: %s**\n", totals.Realized().SignedString())
	return b.String()
}
