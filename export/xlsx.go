package export

import (
	"fmt"
	"io"

	"github.com/etnz/capgains"
	"github.com/xuri/excelize/v2"
)

// sheets of the workbook, an empty category keeps every block.
var sheets = []struct {
	name     string
	category capgains.AssetCategory
}{
	{"All Transactions", ""},
	{"Stock Transactions", capgains.Stock},
	{"Bond Transactions", capgains.Bond},
}

// Cell formats of the workbook.
const (
	euroFormat   = "#,##0.00 €;[Red]-#,##0.00 €"
	numberFormat = "#,##0.000;[Red]-#,##0.000"
	dateFormat   = "dd.mm.yyyy"
)

// column styles, by column range.
type columnStyle struct {
	columns string
	format  string
	width   float64
}

var columns = []columnStyle{
	{"A:A", "", 8},
	{"B:B", numberFormat, 10},
	{"D:E", dateFormat, 11},
	{"H:H", numberFormat, 10},
	{"K:K", "", 14},
	{"L:L", "", 25},
	{"M:Q", numberFormat, 12},
	{"R:U", euroFormat, 12},
}

// xlsxRow returns the cell values of r. Unknown settlement dates are left
// empty.
func (r record) xlsxRow() []any {
	t := r.trade
	var q, valuta any
	if r.closed.Valid {
		q = r.closed.Decimal.InexactFloat64()
	}
	if !t.Settlement.IsZero() {
		valuta = t.Settlement.Time()
	}
	return []any{
		r.kind,
		q,
		t.ID,
		t.Time,
		valuta,
		string(t.Side),
		t.Currency,
		t.ExchangeRate.InexactFloat64(),
		string(t.Category),
		t.Symbol,
		t.ISIN,
		t.Description,
		t.Quantity.Decimal().InexactFloat64(),
		t.Price.Decimal().InexactFloat64(),
		t.Value.Decimal().InexactFloat64(),
		t.Tax.Decimal().InexactFloat64(),
		t.Fee.Decimal().InexactFloat64(),
		t.ValueEUR.Decimal().InexactFloat64(),
		t.TaxEUR.Decimal().InexactFloat64(),
		t.FeeEUR.Decimal().InexactFloat64(),
		r.profit.Decimal().InexactFloat64(),
	}
}

// writeSheet formats sheet and fills it with the blocks of its category.
func writeSheet(f *excelize.File, sheet string, category capgains.AssetCategory, blocks []block) error {
	// column styles first, cells written afterwards inherit them.
	for _, c := range columns {
		if c.format != "" {
			format := c.format
			style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
			if err != nil {
				return err
			}
			if err := f.SetColStyle(sheet, c.columns, style); err != nil {
				return err
			}
		}
		if err := f.SetColWidth(sheet, c.columns[:1], c.columns[2:], c.width); err != nil {
			return err
		}
	}

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	row := 2
	for _, b := range blocks {
		if category != "" && b.category() != category {
			continue
		}
		for _, r := range b {
			cells := r.xlsxRow()
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeXLSX(w io.Writer, blocks []block) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s.name, s.category, blocks); err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}
	return f.Write(w)
}

// WriteLotsXLSX writes the lots of report as an Excel workbook: the sheet "All
// Transactions" holds every lot, laid out like WriteLotsCSV, and the sheets
// "Stock Transactions" and "Bond Transactions" the lots of one asset category.
func WriteLotsXLSX(w io.Writer, report *capgains.Report) error {
	return writeXLSX(w, lotBlocks(report))
}

// WriteCloseFirstXLSX is WriteLotsXLSX for the close-first layout of
// WriteCloseFirstCSV.
func WriteCloseFirstXLSX(w io.Writer, report *capgains.Report) error {
	return writeXLSX(w, closeFirstBlocks(report))
}
