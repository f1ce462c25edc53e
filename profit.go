package capgains

// Profit is the realized profit of a lot, in the reporting currency.
type Profit struct {
	Open     Money // recognized when the lot opened (short sale proceeds)
	Close    Money // recognized when the lot closed, valid if Realized
	Realized bool
}

// Total returns Open + Close.
func (p Profit) Total() Money { return p.Open.Add(p.Close) }

// apportioner distributes an amount of a trade across the lots that consume
// its quantity. Shares are rounded to the currency minor unit on a cumulative
// basis, and the share that exhausts the trade quantity receives the exact
// residual: the shares of a fully consumed trade sum up to the amount.
type apportioner struct {
	total  Quantity
	amount Money
	places int32
	taken  Quantity
	given  Money
}

func (a *apportioner) take(q Quantity) (Money, bool) {
	a.taken = a.taken.Add(q)
	var cumulated Money
	switch {
	case a.total.LessThan(a.taken):
		return Money{}, false
	case a.total.Equal(a.taken):
		cumulated = a.amount
	default:
		cumulated = a.amount.Mul(a.taken).Div(a.total).Round(a.places)
	}
	share := cumulated.Sub(a.given)
	a.given = cumulated
	return share, true
}

// amountKind names the trade amounts that are apportioned.
type amountKind int

const (
	feeAmount amountKind = iota
	valueAmount
)

type shareKey struct {
	trade *Trade
	kind  amountKind
}

// shares holds one apportioner per trade amount for one calculation run.
type shares struct {
	places int32
	table  map[shareKey]*apportioner
}

func newShares() *shares {
	return &shares{places: Fraction(ReportingCurrency), table: make(map[shareKey]*apportioner)}
}

// of returns the share of the trade amount attributable to q units.
func (s *shares) of(t *Trade, kind amountKind, q Quantity) (Money, error) {
	key := shareKey{t, kind}
	a, ok := s.table[key]
	if !ok {
		amount := t.FeeEUR
		if kind == valueAmount {
			amount = t.ValueEUR
		}
		a = &apportioner{total: t.Magnitude(), amount: amount, places: s.places}
		s.table[key] = a
	}
	share, ok := a.take(q)
	if !ok {
		return Money{}, invariant(t, "lots consume %s units, more than the trade quantity %s", a.taken, a.total)
	}
	return share, nil
}

// cashFlow returns the share of value and fee of t attributable to q units.
func (s *shares) cashFlow(t *Trade, q Quantity) (Money, error) {
	value, err := s.of(t, valueAmount, q)
	if err != nil {
		return Money{}, err
	}
	fee, err := s.of(t, feeAmount, q)
	if err != nil {
		return Money{}, err
	}
	return value.Add(fee), nil
}

// ComputeProfits sets the Profit of each lot.
//
//   - A lot opened by a buy has no open profit. A lot opened by a sell
//     recognizes its share of the sale proceeds net of fee.
//   - A lot closed by a buy (short cover) realizes its share of the buy-back
//     cost, fee included.
//   - A lot closed by a sell realizes quantity * (close price - open price)
//     plus its share of both fees.
//
// A sell opening split over several lots is recognized pro-rata: each lot
// gets the share of proceeds and fee matching its quantity, never the whole.
//
// Shares are quantity/abs(trade quantity) portions, see apportioner for the
// rounding policy. Lots must be passed in matching order for the residuals to
// land on the last lot of each trade. On error no lot is modified.
func ComputeProfits(lots []*Lot) error {
	s := newShares()
	profits := make([]*Profit, len(lots))
	for i, lot := range lots {
		p, err := s.profit(lot)
		if err != nil {
			return err
		}
		profits[i] = p
	}
	for i, lot := range lots {
		lot.Profit = profits[i]
	}
	return nil
}

func (s *shares) profit(lot *Lot) (*Profit, error) {
	o, q := lot.Opening, lot.Quantity
	if !q.IsPositive() {
		return nil, invariant(o, "lot quantity %s is not positive", q)
	}
	if err := o.checkSide(); err != nil {
		return nil, invariant(o, "%v", err)
	}
	p := &Profit{Open: EUR(0)}
	if o.Side == Sell {
		open, err := s.cashFlow(o, q)
		if err != nil {
			return nil, err
		}
		p.Open = open
	}

	c := lot.Closing
	if c == nil {
		return p, nil
	}
	if err := c.checkSide(); err != nil {
		return nil, invariant(c, "%v", err)
	}
	if c.Side == o.Side {
		return nil, invariant(c, "closes a lot opened in the same direction by %q", o.ID)
	}
	p.Realized = true
	switch c.Side {
	case Buy:
		cost, err := s.cashFlow(c, q)
		if err != nil {
			return nil, err
		}
		p.Close = cost
	case Sell:
		closeFee, err := s.of(c, feeAmount, q)
		if err != nil {
			return nil, err
		}
		openFee, err := s.of(o, feeAmount, q)
		if err != nil {
			return nil, err
		}
		p.Close = c.PriceEUR.Sub(o.PriceEUR).Mul(q).Add(closeFee).Add(openFee)
	}
	return p, nil
}

// Totals sums profits over a set of lots.
type Totals struct {
	Open  Money // open profit of every lot
	Close Money // close profit of realized lots
}

// Realized returns Open + Close.
func (t Totals) Realized() Money { return t.Open.Add(t.Close) }

// Recognized returns the part of the lot profit that belongs to the calendar
// year: the open profit if the lot was opened in year, the close profit if it
// was closed in year. Year 0 recognizes everything.
func (l *Lot) Recognized(year int) Totals {
	t := Totals{Open: EUR(0), Close: EUR(0)}
	if l.Profit == nil {
		return t
	}
	if year == 0 || l.Opening.Time.Year() == year {
		t.Open = l.Profit.Open
	}
	if l.Profit.Realized && (year == 0 || l.Closing.Time.Year() == year) {
		t.Close = l.Profit.Close
	}
	return t
}

// Sum returns the totals of lots over all years. Lots without profit are
// ignored.
func Sum(lots []*Lot) Totals { return SumYear(lots, 0) }

// SumYear returns the totals of lots recognized in year, see Lot.Recognized.
func SumYear(lots []*Lot, year int) Totals {
	t := Totals{Open: EUR(0), Close: EUR(0)}
	for _, l := range lots {
		t = addTotals(t, l.Recognized(year))
	}
	return t
}

// TradeProfits returns the profit attributed to each trade: the open profit
// of the lots it opened and the close profit of the lots it closed.
func TradeProfits(lots []*Lot) map[*Trade]Money {
	profits := make(map[*Trade]Money)
	add := func(t *Trade, m Money) {
		profits[t] = profits[t].Add(m)
	}
	for _, l := range lots {
		if l.Profit == nil {
			continue
		}
		add(l.Opening, l.Profit.Open)
		if l.Profit.Realized {
			add(l.Closing, l.Profit.Close)
		}
	}
	return profits
}
