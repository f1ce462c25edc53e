package capgains

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/capgains/date"
	"github.com/shopspring/decimal"
)

// Side is the direction of a trade as reported by the broker.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses a broker side ("BUY", "sell", ...).
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown trade side %q", s)
	}
}

// AssetCategory classifies the traded instrument.
type AssetCategory string

const (
	Stock  AssetCategory = "stock"
	Bond   AssetCategory = "bond"
	Option AssetCategory = "option"
	Future AssetCategory = "future"
	Fund   AssetCategory = "fund"
	// Cash marks currency exchanges. They never open nor close a lot.
	Cash AssetCategory = "cash"
)

// Trade is a single brokerage execution.
//
// Value and Fee are cash flows: a buy has a negative Value, fees are
// negative. Every amount is mirrored in the reporting currency by the
// *EUR fields.
//
// A Trade is never modified by the engine: lots reference trades by pointer
// and the matching state lives in the matcher.
type Trade struct {
	ID          string
	Account     string
	Symbol      string
	ISIN        string
	Description string
	Category    AssetCategory

	Time       time.Time
	Settlement date.Date

	Side     Side
	Quantity Quantity // positive for a buy, negative for a sell

	Currency     string
	ExchangeRate decimal.Decimal // value of one unit of Currency in EUR
	Price        Money
	Value        Money
	Tax          Money
	Fee          Money

	PriceEUR Money
	ValueEUR Money
	TaxEUR   Money
	FeeEUR   Money
}

// Magnitude returns abs(Quantity).
func (t *Trade) Magnitude() Quantity { return t.Quantity.Abs() }

// checkSide returns an error if the trade side is not buy or sell, or if it
// disagrees with the quantity sign.
func (t *Trade) checkSide() error {
	switch t.Side {
	case Buy:
		if t.Quantity.IsNegative() {
			return fmt.Errorf("buy with negative quantity %s", t.Quantity)
		}
	case Sell:
		if t.Quantity.IsPositive() {
			return fmt.Errorf("sell with positive quantity %s", t.Quantity)
		}
	default:
		return fmt.Errorf("side %q is neither buy nor sell", t.Side)
	}
	return nil
}

func (t *Trade) String() string {
	return fmt.Sprintf("%s %s %s %s@%s", t.ID, t.Time.Format(time.DateOnly), t.Symbol, t.Quantity, t.Price.Decimal())
}
