package capgains

import (
	"time"

	"github.com/shopspring/decimal"
)

// t0 is the reference time of test trades.
var t0 = time.Date(2020, time.January, 2, 9, 30, 0, 0, time.UTC)

// day returns t0 shifted by n days.
func day(n int) time.Time { return t0.AddDate(0, 0, n) }

// dec is a helper for test to create decimals from string constants.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// buy returns a stock buy of qty units at price EUR, fee is the commission
// paid (positive number).
func buy(id, symbol string, on time.Time, qty, price, fee string) *Trade {
	return trade(id, symbol, on, Buy, dec(qty), dec(price), dec(fee))
}

// sell returns a stock sell of qty units (positive number) at price EUR.
func sell(id, symbol string, on time.Time, qty, price, fee string) *Trade {
	return trade(id, symbol, on, Sell, dec(qty).Neg(), dec(price), dec(fee))
}

func trade(id, symbol string, on time.Time, side Side, qty, price, fee decimal.Decimal) *Trade {
	value := price.Mul(qty).Neg()
	return &Trade{
		ID:           id,
		Account:      "U1234567",
		Symbol:       symbol,
		Category:     Stock,
		Time:         on,
		Side:         side,
		Quantity:     Q(qty),
		Currency:     "EUR",
		ExchangeRate: decimal.NewFromInt(1),
		Price:        EUR(price),
		Value:        EUR(value),
		Fee:          EUR(fee.Neg()),
		PriceEUR:     EUR(price),
		ValueEUR:     EUR(value),
		TaxEUR:       EUR(0),
		FeeEUR:       EUR(fee.Neg()),
	}
}

// lotView is a comparable summary of a lot.
type lotView struct {
	Opening  string
	Quantity string
	Closing  string
}

func viewLots(lots []*Lot) []lotView {
	views := make([]lotView, 0, len(lots))
	for _, l := range lots {
		v := lotView{Opening: l.Opening.ID, Quantity: l.Quantity.String()}
		if l.Closing != nil {
			v.Closing = l.Closing.ID
		}
		views = append(views, v)
	}
	return views
}

// recorder is an Observer remembering what it was told.
type recorder struct {
	normalized [][2]string
	matched    []string
	failed     []string
}

func (r *recorder) SymbolNormalized(original, canonical string) {
	r.normalized = append(r.normalized, [2]string{original, canonical})
}
func (r *recorder) InstrumentMatched(symbol string, _, _ int) { r.matched = append(r.matched, symbol) }
func (r *recorder) InstrumentFailed(symbol string, _ error)   { r.failed = append(r.failed, symbol) }
