// Package flex decodes the trades of Interactive Brokers Flex Query reports
// (XML).
package flex

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/date"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountMismatch is returned when trades of different accounts are mixed.
	ErrAccountMismatch = errors.New("account id mismatch")
	// ErrUnknownCancellation is returned when a cancellation does not match
	// any execution of the report.
	ErrUnknownCancellation = errors.New("cancellation of an unknown execution")
)

// response is the root element of a Flex Query report.
type response struct {
	XMLName    xml.Name    `xml:"FlexQueryResponse"`
	Statements []statement `xml:"FlexStatements>FlexStatement"`
}

type statement struct {
	AccountID string  `xml:"accountId,attr"`
	Trades    []trade `xml:"Trades>Trade"`
}

// trade holds the attributes of a Trade element. Numbers are kept as text:
// Flex reports leave unused amounts empty.
type trade struct {
	AccountID            string `xml:"accountId,attr"`
	AssetCategory        string `xml:"assetCategory,attr"`
	Symbol               string `xml:"symbol,attr"`
	Description          string `xml:"description,attr"`
	ISIN                 string `xml:"isin,attr"`
	Currency             string `xml:"currency,attr"`
	FXRateToBase         string `xml:"fxRateToBase,attr"`
	TransactionID        string `xml:"transactionID,attr"`
	TradeID              string `xml:"tradeID,attr"`
	OrigTradeID          string `xml:"origTradeID,attr"`
	Notes                string `xml:"notes,attr"`
	DateTime             string `xml:"dateTime,attr"`
	TradeDate            string `xml:"tradeDate,attr"`
	SettleDateTarget     string `xml:"settleDateTarget,attr"`
	BuySell              string `xml:"buySell,attr"`
	Quantity             string `xml:"quantity,attr"`
	TradePrice           string `xml:"tradePrice,attr"`
	Proceeds             string `xml:"proceeds,attr"`
	Taxes                string `xml:"taxes,attr"`
	IBCommission         string `xml:"ibCommission,attr"`
	IBCommissionCurrency string `xml:"ibCommissionCurrency,attr"`
	LevelOfDetail        string `xml:"levelOfDetail,attr"`
}

// Statement is the set of trades of one account.
type Statement struct {
	AccountID string
	Trades    []*capgains.Trade
}

// Decode reads a Flex Query report. Every FlexStatement of the report must
// belong to the same account.
//
// Cancellations ("BUY (Ca.)", note code Ca) are dropped together with the
// execution they cancel, found by origTradeID or else by symbol, price and
// opposite quantity.
func Decode(r io.Reader) (*Statement, error) {
	var resp response
	if err := xml.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("could not decode flex report: %w", err)
	}
	st := new(Statement)
	var rows []trade
	for _, s := range resp.Statements {
		if err := st.merge(s.AccountID); err != nil {
			return nil, err
		}
		for _, x := range s.Trades {
			// order and lot summaries repeat the executions.
			if x.LevelOfDetail != "" && x.LevelOfDetail != "EXECUTION" {
				continue
			}
			if x.AccountID == "" {
				x.AccountID = s.AccountID
			}
			rows = append(rows, x)
		}
	}
	rows, err := withoutCancellations(rows)
	if err != nil {
		return nil, err
	}
	for _, x := range rows {
		t, err := x.trade()
		if err != nil {
			return nil, err
		}
		st.Trades = append(st.Trades, t)
	}
	return st, nil
}

// isCancellation reports whether x cancels an earlier execution.
func (x trade) isCancellation() bool {
	return strings.Contains(x.BuySell, "(Ca.)") || slices.Contains(strings.Split(x.Notes, ";"), "Ca")
}

// cancels reports whether the cancellation x targets the execution y.
func (x trade) cancels(y trade) bool {
	if x.OrigTradeID != "" {
		return y.TradeID == x.OrigTradeID
	}
	if x.Symbol != y.Symbol {
		return false
	}
	qx, err := number("quantity", x.Quantity)
	if err != nil {
		return false
	}
	qy, err := number("quantity", y.Quantity)
	if err != nil {
		return false
	}
	px, err := number("tradePrice", x.TradePrice)
	if err != nil {
		return false
	}
	py, err := number("tradePrice", y.TradePrice)
	if err != nil {
		return false
	}
	return qx.Neg().Equal(qy) && px.Equal(py)
}

// withoutCancellations removes the cancellations and the executions they
// cancel, each cancellation removing one execution.
func withoutCancellations(rows []trade) ([]trade, error) {
	dropped := make([]bool, len(rows))
	for i, x := range rows {
		if !x.isCancellation() {
			continue
		}
		dropped[i] = true
		j := -1
		for k, y := range rows {
			if !dropped[k] && !y.isCancellation() && x.cancels(y) {
				j = k
				break
			}
		}
		if j < 0 {
			return nil, fmt.Errorf("trade %q (%s): %w", x.id(), x.Symbol, ErrUnknownCancellation)
		}
		dropped[j] = true
	}
	return lo.Filter(rows, func(_ trade, i int) bool { return !dropped[i] }), nil
}

// merge checks that account belongs to the statement.
func (st *Statement) merge(account string) error {
	switch {
	case account == "":
	case st.AccountID == "":
		st.AccountID = account
	case st.AccountID != account:
		return fmt.Errorf("%w: %s != %s", ErrAccountMismatch, st.AccountID, account)
	}
	return nil
}

// DecodeFile reads the Flex Query report stored in a file.
func DecodeFile(path string) (*Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// DecodeFiles reads several Flex Query reports of the same account, typically
// one per year, and concatenates their trades.
func DecodeFiles(paths ...string) (*Statement, error) {
	all := new(Statement)
	for _, path := range paths {
		st, err := DecodeFile(path)
		if err != nil {
			return nil, err
		}
		if err := all.merge(st.AccountID); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all.Trades = append(all.Trades, st.Trades...)
	}
	return all, nil
}

// CheckAccounts returns ErrAccountMismatch if trades belong to more than one
// account. Trades without account are ignored.
func CheckAccounts(trades []*capgains.Trade) error {
	var st Statement
	for _, t := range trades {
		if err := st.merge(t.Account); err != nil {
			return fmt.Errorf("trade %q: %w", t.ID, err)
		}
	}
	return nil
}

var categories = map[string]capgains.AssetCategory{
	"STK":  capgains.Stock,
	"BOND": capgains.Bond,
	"OPT":  capgains.Option,
	"FUT":  capgains.Future,
	"FUND": capgains.Fund,
	"CASH": capgains.Cash,
}

func category(c string) capgains.AssetCategory {
	if cat, ok := categories[c]; ok {
		return cat
	}
	return capgains.AssetCategory(strings.ToLower(c))
}

// dateTimeLayouts are the date/time formats a Flex query can be configured with.
var dateTimeLayouts = []string{
	"20060102;150405",
	"20060102 150405",
	"2006-01-02;15:04:05",
	"2006-01-02, 15:04:05",
	"2006-01-02 15:04:05",
	"20060102",
	"2006-01-02",
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date time %q", s)
}

// number parses a decimal attribute, the empty string is zero.
func number(name, s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d, nil
}

// id returns the identity of the execution.
func (x trade) id() string {
	if x.TransactionID != "" {
		return x.TransactionID
	}
	return x.TradeID
}

func (x trade) trade() (*capgains.Trade, error) {
	id := x.id()
	t, err := x.convert(id)
	if err != nil {
		return nil, fmt.Errorf("trade %q (%s): %w", id, x.Symbol, err)
	}
	return t, nil
}

func (x trade) convert(id string) (*capgains.Trade, error) {
	var side capgains.Side
	if fields := strings.Fields(x.BuySell); len(fields) > 0 {
		s, err := capgains.ParseSide(fields[0])
		if err != nil {
			return nil, err
		}
		side = s
	} else {
		return nil, errors.New("buySell is missing")
	}

	when := x.DateTime
	if when == "" {
		when = x.TradeDate
	}
	on, err := parseDateTime(when)
	if err != nil {
		return nil, err
	}
	var settlement date.Date
	if x.SettleDateTarget != "" {
		if settlement, err = date.Parse(x.SettleDateTarget); err != nil {
			return nil, err
		}
	}

	values := make(map[string]decimal.Decimal)
	for name, s := range map[string]string{
		"quantity":     x.Quantity,
		"tradePrice":   x.TradePrice,
		"proceeds":     x.Proceeds,
		"taxes":        x.Taxes,
		"ibCommission": x.IBCommission,
		"fxRateToBase": x.FXRateToBase,
	} {
		if values[name], err = number(name, s); err != nil {
			return nil, err
		}
	}
	fx := values["fxRateToBase"]
	if fx.IsZero() {
		fx = decimal.NewFromInt(1)
	}
	feeCurrency := x.IBCommissionCurrency
	if feeCurrency == "" {
		feeCurrency = x.Currency
	}
	feeEUR := values["ibCommission"]
	if feeCurrency != capgains.ReportingCurrency {
		feeEUR = feeEUR.Mul(fx)
	}

	return &capgains.Trade{
		ID:           id,
		Account:      x.AccountID,
		Symbol:       x.Symbol,
		ISIN:         x.ISIN,
		Description:  x.Description,
		Category:     category(x.AssetCategory),
		Time:         on,
		Settlement:   settlement,
		Side:         side,
		Quantity:     capgains.Q(values["quantity"]),
		Currency:     x.Currency,
		ExchangeRate: fx,
		Price:        capgains.M(values["tradePrice"], x.Currency),
		Value:        capgains.M(values["proceeds"], x.Currency),
		Tax:          capgains.M(values["taxes"], x.Currency),
		Fee:          capgains.M(values["ibCommission"], feeCurrency),
		PriceEUR:     capgains.EUR(values["tradePrice"].Mul(fx)),
		ValueEUR:     capgains.EUR(values["proceeds"].Mul(fx)),
		TaxEUR:       capgains.EUR(values["taxes"].Mul(fx)),
		FeeEUR:       capgains.EUR(feeEUR),
	}, nil
}
