package renderer

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/etnz/capgains"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// title prints the report title, the year is omitted when 0.
func title(w io.Writer, name string, year int) {
	if year == 0 {
		fmt.Fprintf(w, "# %s\n\n", name)
		return
	}
	fmt.Fprintf(w, "# %s %d\n\n", name, year)
}

func day(t time.Time) string { return t.Format(time.DateOnly) }

// closeProfit returns the close profit of a lot recognized in year, or "" if
// not realized.
func closeProfit(l *capgains.Lot, year int) string {
	if l.Profit == nil || !l.Profit.Realized {
		return ""
	}
	return l.Recognized(year).Close.SignedString()
}

func openProfit(l *capgains.Lot, year int) string {
	if l.Profit == nil {
		return ""
	}
	return l.Recognized(year).Open.SignedString()
}
