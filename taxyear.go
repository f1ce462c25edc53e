package capgains

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

// Relevant reports whether lot must be reported for the calendar year: it was
// opened by a sell in that year (short proceeds are recognized at once), or it
// was closed in that year.
func Relevant(lot *Lot, year int) bool {
	if lot.Opening.Side == Sell && lot.Opening.Time.Year() == year {
		return true
	}
	return lot.Closing != nil && lot.Closing.Time.Year() == year
}

// FilterYear returns the lots relevant to year, in order. Year 0 disables the filter.
func FilterYear(lots []*Lot, year int) []*Lot {
	if year == 0 {
		return lots
	}
	return lo.Filter(lots, func(l *Lot, _ int) bool { return Relevant(l, year) })
}

// ParseYear parses a tax year. The empty string is 0 (no filter).
func ParseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 9999 {
		return 0, fmt.Errorf("invalid tax year %q", s)
	}
	return y, nil
}
