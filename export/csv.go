// Package export writes reports in formats meant for a tax declaration
// (German CSV, Excel workbook) or further analysis (SQLite).
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/etnz/capgains"
	"github.com/shopspring/decimal"
)

// header of the CSV and XLSX exports.
var header = []string{
	"OPEN/CLOSE", "closed quantity", "transaction id", "date", "valuta", "buy/sell", "currency",
	"exchange rate", "asset category", "symbol", "isin", "description", "quantity", "price",
	"value", "tax", "fee", "value (EUR)", "tax (EUR)", "fee (EUR)", "profit (EUR)",
}

// germanDate is the date layout of the CSV exports.
const germanDate = "02.01.2006"

// record is one exported line: a trade seen from a lot.
type record struct {
	kind   string              // OPEN or CLOSE
	closed decimal.NullDecimal // closed quantity, if the line carries one
	trade  *capgains.Trade
	profit capgains.Money
}

// block is a set of records printed together and followed by an empty line.
type block []record

// category returns the asset category of the block.
func (b block) category() capgains.AssetCategory { return b[0].trade.Category }

func closed(q capgains.Quantity) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: q.Decimal(), Valid: true}
}

// lotBlocks returns a block per lot: the OPEN record and, if closed, the CLOSE
// record. Profits are the ones recognized in the report year.
func lotBlocks(report *capgains.Report) []block {
	var blocks []block
	for _, l := range report.Lots {
		if l.Profit == nil {
			continue
		}
		p := l.Recognized(report.Year)
		b := block{{kind: "OPEN", trade: l.Opening, profit: p.Open}}
		if l.Closing != nil {
			b = append(b, record{kind: "CLOSE", closed: closed(l.Quantity), trade: l.Closing, profit: p.Close})
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// closeFirstBlocks returns a block per closing trade: the CLOSE record with
// the profit of the whole group, then an OPEN record per lot it closed. Open
// short positions come last, one block each.
func closeFirstBlocks(report *capgains.Report) []block {
	view := report.CloseFirst()
	var blocks []block
	for _, g := range view.Groups {
		b := block{{kind: "CLOSE", trade: g.Closing, profit: g.Profit()}}
		for _, l := range g.Lots {
			b = append(b, record{kind: "OPEN", closed: closed(l.Quantity), trade: l.Opening, profit: l.Recognized(view.Year).Open})
		}
		blocks = append(blocks, b)
	}
	for _, l := range view.OpenShorts {
		blocks = append(blocks, block{{kind: "OPEN", closed: closed(l.Quantity), trade: l.Opening, profit: l.Recognized(view.Year).Open}})
	}
	return blocks
}

// number formats a decimal with 3 digits and a decimal comma.
func number(d decimal.Decimal) string {
	return strings.Replace(d.StringFixedBank(3), ".", ",", 1)
}

// csvRow returns the CSV fields of r.
func (r record) csvRow() []string {
	t := r.trade
	var q string
	if r.closed.Valid {
		q = number(r.closed.Decimal)
	}
	return []string{
		r.kind,
		q,
		t.ID,
		t.Time.Format(germanDate),
		t.Settlement.Format(germanDate),
		strings.ToUpper(string(t.Side)),
		t.Currency,
		number(t.ExchangeRate),
		string(t.Category),
		t.Symbol,
		t.ISIN,
		t.Description,
		number(t.Quantity.Decimal()),
		number(t.Price.Decimal()),
		number(t.Value.Decimal()),
		number(t.Tax.Decimal()),
		number(t.Fee.Decimal()),
		number(t.ValueEUR.Decimal()),
		number(t.TaxEUR.Decimal()),
		number(t.FeeEUR.Decimal()),
		number(r.profit.Decimal()),
	}
}

func writeCSV(w io.Writer, blocks []block) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.Write(header)
	cw.Write(nil)
	for _, b := range blocks {
		for _, r := range b {
			cw.Write(r.csvRow())
		}
		cw.Write(nil)
	}
	cw.Flush()
	return cw.Error()
}

// WriteLotsCSV writes the lots of report, each as an OPEN record followed by
// the CLOSE record of its closing trade if any, and an empty record. Profits
// are the ones recognized in the report year.
func WriteLotsCSV(w io.Writer, report *capgains.Report) error {
	return writeCSV(w, lotBlocks(report))
}

// WriteCloseFirstCSV writes the close-first view of report: a CLOSE record per
// closing trade carrying the profit of the whole group, followed by an OPEN
// record per lot it closed. Open short positions come last.
func WriteCloseFirstCSV(w io.Writer, report *capgains.Report) error {
	return writeCSV(w, closeFirstBlocks(report))
}
