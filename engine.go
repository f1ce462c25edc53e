package capgains

import (
	"errors"
	"fmt"
)

// Engine runs the whole matching pipeline over a batch of trades of a single
// account: symbol normalization, FIFO matching, profit calculation and the
// optional tax-year filter.
type Engine struct {
	Year     int      // report year, 0 for all years
	Observer Observer // diagnostics, nil discards them
}

// Report is the result of an engine run.
type Report struct {
	Year        int
	Instruments []string // canonical symbols successfully processed
	Lots        []*Lot   // instrument after instrument, matching order
}

// Run processes trades. The input is not modified.
//
// An instrument violating an invariant is dropped as a whole; the error
// returned joins one error per dropped instrument, and the report holds the
// lots of the others. Tax figures must never be built from a report that came
// with an error.
func (e *Engine) Run(trades []*Trade) (*Report, error) {
	obs := e.Observer
	if obs == nil {
		obs = NopObserver{}
	}

	report := &Report{Year: e.Year}
	var errs []error
	for _, inst := range GroupBySymbol(trades, obs) {
		lots, err := MatchLots(inst.Trades)
		if err == nil {
			// profits depend on the full history, filter afterwards.
			err = ComputeProfits(lots)
		}
		if err != nil {
			err = fmt.Errorf("instrument %s: %w", inst.Symbol, err)
			obs.InstrumentFailed(inst.Symbol, err)
			errs = append(errs, err)
			continue
		}
		obs.InstrumentMatched(inst.Symbol, len(inst.Trades), len(lots))
		report.Instruments = append(report.Instruments, inst.Symbol)
		report.Lots = append(report.Lots, FilterYear(lots, e.Year)...)
	}
	return report, errors.Join(errs...)
}

// CloseFirst returns the close-first view of the report lots.
func (r *Report) CloseFirst() CloseFirstView { return BuildCloseFirstYear(r.Lots, r.Year) }

// Totals returns the profit totals recognized in the report year: short sale
// proceeds count in the year the short opened, closings in the year they
// happen.
func (r *Report) Totals() Totals { return SumYear(r.Lots, r.Year) }

// Trades returns the distinct trades referenced by the report lots, in order
// of first reference.
func (r *Report) Trades() []*Trade {
	var trades []*Trade
	seen := make(map[*Trade]bool)
	add := func(t *Trade) {
		if t != nil && !seen[t] {
			seen[t] = true
			trades = append(trades, t)
		}
	}
	for _, l := range r.Lots {
		add(l.Opening)
		add(l.Closing)
	}
	return trades
}

// SymbolGains is the realized profit of one instrument.
type SymbolGains struct {
	Symbol string
	Totals Totals
}

// GainsBySymbol returns the profit totals per canonical symbol recognized in
// the report year, in report order.
func (r *Report) GainsBySymbol() []SymbolGains {
	var gains []SymbolGains
	index := make(map[string]int)
	for _, l := range r.Lots {
		symbol, _ := NormalizeSymbol(l.Opening.Symbol)
		i, ok := index[symbol]
		if !ok {
			i = len(gains)
			index[symbol] = i
			gains = append(gains, SymbolGains{Symbol: symbol})
		}
		gains[i].Totals = addTotals(gains[i].Totals, l.Recognized(r.Year))
	}
	return gains
}

func addTotals(a, b Totals) Totals {
	return Totals{Open: a.Open.Add(b.Open), Close: a.Close.Add(b.Close)}
}
