package capgains

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// ClosingGroup is the set of lots closed by one trade.
type ClosingGroup struct {
	Closing *Trade
	Lots    []*Lot
	Year    int // tax year of the view, 0 for all years
}

// Quantity returns the total quantity closed by the group.
func (g ClosingGroup) Quantity() Quantity {
	return lo.Reduce(g.Lots, func(q Quantity, l *Lot, _ int) Quantity {
		return q.Add(l.Quantity)
	}, Quantity{})
}

// Profit returns the sum of the close profits of the group, zero if the
// closing trade falls outside the view year.
func (g ClosingGroup) Profit() Money {
	return SumYear(g.Lots, g.Year).Close
}

// CloseFirstView organizes lots around realizing events.
type CloseFirstView struct {
	Year       int            // tax year, 0 for all years
	Groups     []ClosingGroup // sorted by closing time, then symbol
	OpenShorts []*Lot         // short lots never closed
}

// BuildCloseFirst indexes lots by closing trade.
//
// Short lots still open are set apart in OpenShorts. Long lots still open
// realized nothing and are not part of the view.
func BuildCloseFirst(lots []*Lot) CloseFirstView { return BuildCloseFirstYear(lots, 0) }

// BuildCloseFirstYear is BuildCloseFirst with totals restricted to the profit
// recognized in year.
func BuildCloseFirstYear(lots []*Lot, year int) CloseFirstView {
	view := CloseFirstView{Year: year}
	index := make(map[*Trade]int)
	for _, l := range lots {
		if l.IsOpen() {
			if l.Opening.Side == Sell {
				view.OpenShorts = append(view.OpenShorts, l)
			}
			continue
		}
		i, ok := index[l.Closing]
		if !ok {
			i = len(view.Groups)
			index[l.Closing] = i
			view.Groups = append(view.Groups, ClosingGroup{Closing: l.Closing, Year: year})
		}
		view.Groups[i].Lots = append(view.Groups[i].Lots, l)
	}
	slices.SortStableFunc(view.Groups, func(a, b ClosingGroup) int {
		return cmp.Or(
			a.Closing.Time.Compare(b.Closing.Time),
			cmp.Compare(a.Closing.Symbol, b.Closing.Symbol),
		)
	})
	return view
}

// Totals returns the profit totals of the view recognized in its year.
func (v CloseFirstView) Totals() Totals {
	t := SumYear(v.OpenShorts, v.Year)
	for _, g := range v.Groups {
		t = addTotals(t, SumYear(g.Lots, v.Year))
	}
	return t
}
