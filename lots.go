package capgains

import "slices"

// Lot is a quantity of one opening trade, resolved against at most one
// closing trade.
type Lot struct {
	Opening  *Trade
	Quantity Quantity // always positive
	Closing  *Trade   // nil while the lot is open
	Profit   *Profit  // nil until ComputeProfits
}

// IsOpen reports whether the lot has no closing trade yet.
func (l *Lot) IsOpen() bool { return l.Closing == nil }

// IsShort reports whether the lot was opened by a sell.
func (l *Lot) IsShort() bool { return l.Opening.Quantity.IsNegative() }

// close assigns the closing trade. A lot is closed only once.
func (l *Lot) close(t *Trade) error {
	if l.Closing != nil {
		return invariant(t, "lot opened by %q is already closed by %q", l.Opening.ID, l.Closing.ID)
	}
	l.Closing = t
	return nil
}

// MatchLots matches the trades of a single instrument first-in first-out.
//
// Trades are stably sorted by time (the input slice is not modified), so
// trades sharing a timestamp keep their reported order. Cash trades and
// trades of zero quantity are ignored. An incoming trade closes the oldest open
// lots of the opposite direction; a partially closed lot is cut in two, the
// unresolved remainder becoming a new open lot right after it. Whatever the
// trade could not close opens a new lot.
//
// The returned lots cover every trade, closed and open, oldest opening first.
func MatchLots(trades []*Trade) ([]*Lot, error) {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b *Trade) int { return a.Time.Compare(b.Time) })

	var lots []*Lot
	head := 0 // lots before head are all closed
	for _, trade := range sorted {
		if trade.Category == Cash || trade.Quantity.IsZero() {
			continue
		}

		// open is the part of the trade not matched yet.
		open := trade.Magnitude()
		for i := head; i < len(lots) && open.IsPositive(); i++ {
			lot := lots[i]
			if !lot.IsOpen() || lot.Opening.Quantity.Sign() == trade.Quantity.Sign() {
				continue
			}
			closeQty := MinQ(lot.Quantity, open)
			if closeQty.IsZero() {
				continue
			}
			remaining := lot.Quantity.Sub(closeQty)
			if remaining.IsNegative() {
				return nil, invariant(trade, "negative remainder %s for lot opened by %q", remaining, lot.Opening.ID)
			}
			if err := lot.close(trade); err != nil {
				return nil, err
			}
			lot.Quantity = closeQty
			open = open.Sub(closeQty)
			if remaining.IsPositive() {
				lots = slices.Insert(lots, i+1, &Lot{Opening: lot.Opening, Quantity: remaining})
			}
		}
		if open.IsNegative() {
			return nil, invariant(trade, "negative open quantity %s", open)
		}
		if open.IsPositive() {
			lots = append(lots, &Lot{Opening: trade, Quantity: open})
		}
		for head < len(lots) && !lots[head].IsOpen() {
			head++
		}
	}
	return lots, nil
}
