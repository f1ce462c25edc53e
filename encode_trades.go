package capgains

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/capgains/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultTradesPath selects the trades of a JSON document by default.
const DefaultTradesPath = "$.trades[*]"

// jtrade is the persisted form of a Trade, one per JSONL line.
type jtrade struct {
	ID           string          `json:"id"`
	Account      string          `json:"account,omitempty"`
	Symbol       string          `json:"symbol"`
	ISIN         string          `json:"isin,omitempty"`
	Description  string          `json:"description,omitempty"`
	Category     AssetCategory   `json:"category"`
	Time         time.Time       `json:"time"`
	Settlement   date.Date       `json:"settlement"`
	Side         string          `json:"side"`
	Quantity     decimal.Decimal `json:"quantity"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Price        decimal.Decimal `json:"price"`
	Value        decimal.Decimal `json:"value"`
	Tax          decimal.Decimal `json:"tax"`
	Fee          decimal.Decimal `json:"fee"`
	PriceEUR     decimal.Decimal `json:"priceEUR"`
	ValueEUR     decimal.Decimal `json:"valueEUR"`
	TaxEUR       decimal.Decimal `json:"taxEUR"`
	FeeEUR       decimal.Decimal `json:"feeEUR"`
}

func (j jtrade) trade() (*Trade, error) {
	side, err := ParseSide(j.Side)
	if err != nil {
		return nil, fmt.Errorf("trade %q: %w", j.ID, err)
	}
	if j.Symbol == "" {
		return nil, fmt.Errorf("trade %q: symbol is missing", j.ID)
	}
	return &Trade{
		ID:           j.ID,
		Account:      j.Account,
		Symbol:       j.Symbol,
		ISIN:         j.ISIN,
		Description:  j.Description,
		Category:     j.Category,
		Time:         j.Time,
		Settlement:   j.Settlement,
		Side:         side,
		Quantity:     Q(j.Quantity),
		Currency:     j.Currency,
		ExchangeRate: j.ExchangeRate,
		Price:        M(j.Price, j.Currency),
		Value:        M(j.Value, j.Currency),
		Tax:          M(j.Tax, j.Currency),
		Fee:          M(j.Fee, j.Currency),
		PriceEUR:     EUR(j.PriceEUR),
		ValueEUR:     EUR(j.ValueEUR),
		TaxEUR:       EUR(j.TaxEUR),
		FeeEUR:       EUR(j.FeeEUR),
	}, nil
}

func newJTrade(t *Trade) jtrade {
	return jtrade{
		ID:           t.ID,
		Account:      t.Account,
		Symbol:       t.Symbol,
		ISIN:         t.ISIN,
		Description:  t.Description,
		Category:     t.Category,
		Time:         t.Time,
		Settlement:   t.Settlement,
		Side:         string(t.Side),
		Quantity:     t.Quantity.Decimal(),
		Currency:     t.Currency,
		ExchangeRate: t.ExchangeRate,
		Price:        t.Price.Decimal(),
		Value:        t.Value.Decimal(),
		Tax:          t.Tax.Decimal(),
		Fee:          t.Fee.Decimal(),
		PriceEUR:     t.PriceEUR.Decimal(),
		ValueEUR:     t.ValueEUR.Decimal(),
		TaxEUR:       t.TaxEUR.Decimal(),
		FeeEUR:       t.FeeEUR.Decimal(),
	}
}

// DecodeTrades decodes trades from a stream of JSONL data, one trade per line.
// Empty lines are skipped.
func DecodeTrades(r io.Reader) ([]*Trade, error) {
	var trades []*Trade
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var j jtrade
		if err := json.Unmarshal(lineBytes, &j); err != nil {
			return nil, fmt.Errorf("line %d: could not decode trade %q: %w", line, string(lineBytes), err)
		}
		t, err := j.trade()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}
	return trades, nil
}

// EncodeTrade marshals a single trade to JSON and writes it as a JSONL line.
func EncodeTrade(w io.Writer, t *Trade) error {
	jsonData, err := json.Marshal(newJTrade(t))
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}
	// Write the JSON data followed by a newline to create the JSONL format.
	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write trade: %w", err)
	}
	return nil
}

// EncodeTrades writes trades in JSONL format, in order.
func EncodeTrades(w io.Writer, trades []*Trade) error {
	for _, t := range trades {
		if err := EncodeTrade(w, t); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTradesJSON decodes the trades of a JSON document. path is a JSONPath
// expression selecting the trade objects (DefaultTradesPath if empty).
func DecodeTradesJSON(r io.Reader, path string) ([]*Trade, error) {
	if path == "" {
		path = DefaultTradesPath
	}
	var jobj any
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep decimals exact
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("not a correct json: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error selecting trades with %q: %w", path, err)
	}
	// jsonpath returns a single object for a plain path, a list for wildcards.
	jlist, ok := jval.([]any)
	if !ok {
		jlist = []any{jval}
	}

	trades := make([]*Trade, 0, len(jlist))
	for i, jitem := range jlist {
		raw, err := json.Marshal(jitem)
		if err != nil {
			return nil, fmt.Errorf("trade #%d: %w", i, err)
		}
		var j jtrade
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, fmt.Errorf("trade #%d: could not decode %s: %w", i, raw, err)
		}
		t, err := j.trade()
		if err != nil {
			return nil, fmt.Errorf("trade #%d: %w", i, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}
