package flex

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/date"
)

const report = `<FlexQueryResponse queryName="trades" type="AF">
<FlexStatements count="1">
<FlexStatement accountId="U1234567" fromDate="20230101" toDate="20231231">
<Trades>
<Trade accountId="U1234567" currency="USD" fxRateToBase="0.9" assetCategory="STK" symbol="AAPL" description="APPLE INC" isin="US0378331005" transactionID="100" tradeID="10" dateTime="20230103;101500" settleDateTarget="20230105" buySell="BUY" quantity="10" tradePrice="125.5" proceeds="-1255" taxes="0" ibCommission="-1" ibCommissionCurrency="USD" levelOfDetail="EXECUTION" />
<Trade accountId="U1234567" currency="USD" fxRateToBase="0.9" assetCategory="STK" symbol="AAPL" transactionID="" tradeID="11" dateTime="20230103;101500" buySell="BUY" quantity="10" levelOfDetail="ORDER" />
<Trade accountId="U1234567" currency="EUR" fxRateToBase="1" assetCategory="STK" symbol="SAPd" description="SAP SE" isin="DE0007164600" transactionID="101" dateTime="2023-02-01;09:00:00" settleDateTarget="2023-02-03" buySell="SELL" quantity="-5" tradePrice="110" proceeds="550" taxes="" ibCommission="-1.25" ibCommissionCurrency="EUR" />
<Trade accountId="U1234567" currency="USD" fxRateToBase="0.9" assetCategory="CASH" symbol="EUR.USD" transactionID="102" dateTime="20230301;120000" buySell="BUY" quantity="1000" tradePrice="1.1" proceeds="-1100" ibCommission="-2" ibCommissionCurrency="EUR" />
</Trades>
</FlexStatement>
</FlexStatements>
</FlexQueryResponse>`

func TestDecode(t *testing.T) {
	st, err := Decode(strings.NewReader(report))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if st.AccountID != "U1234567" {
		t.Errorf("Decode() account = %q, want U1234567", st.AccountID)
	}
	if len(st.Trades) != 3 {
		t.Fatalf("Decode() returned %d trades, want 3", len(st.Trades))
	}

	aapl := st.Trades[0]
	if aapl.ID != "100" || aapl.Side != capgains.Buy || aapl.Category != capgains.Stock {
		t.Errorf("Decode()[0] = %v, want buy 100 of stock", aapl)
	}
	if want := time.Date(2023, 1, 3, 10, 15, 0, 0, time.UTC); !aapl.Time.Equal(want) {
		t.Errorf("Decode()[0].Time = %v, want %v", aapl.Time, want)
	}
	if want := date.New(2023, 1, 5); aapl.Settlement != want {
		t.Errorf("Decode()[0].Settlement = %v, want %v", aapl.Settlement, want)
	}
	checks := []struct {
		name string
		got  capgains.Money
		want capgains.Money
	}{
		{"Price", aapl.Price, capgains.M(125.5, "USD")},
		{"PriceEUR", aapl.PriceEUR, capgains.EUR(112.95)},
		{"ValueEUR", aapl.ValueEUR, capgains.EUR(-1129.5)},
		{"FeeEUR", aapl.FeeEUR, capgains.EUR(-0.9)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("Decode()[0].%s = %v %s, want %v %s", c.name, c.got.Decimal(), c.got.Currency(), c.want.Decimal(), c.want.Currency())
		}
	}

	sap := st.Trades[1]
	if sap.Side != capgains.Sell || !sap.Quantity.Equal(capgains.Q(-5)) || !sap.TaxEUR.IsZero() {
		t.Errorf("Decode()[1] = %v, want a sell of 5 without tax", sap)
	}
	if !sap.FeeEUR.Equal(capgains.EUR(-1.25)) {
		t.Errorf("Decode()[1].FeeEUR = %v, want -1.25", sap.FeeEUR.Decimal())
	}

	cash := st.Trades[2]
	if cash.Category != capgains.Cash {
		t.Errorf("Decode()[2].Category = %q, want cash", cash.Category)
	}
	// commission already in the base currency
	if !cash.FeeEUR.Equal(capgains.EUR(-2)) {
		t.Errorf("Decode()[2].FeeEUR = %v, want -2", cash.FeeEUR.Decimal())
	}
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not xml", "trades"},
		{"bad side", `<FlexQueryResponse><FlexStatements><FlexStatement accountId="U1"><Trades>
<Trade transactionID="1" symbol="X" buySell="HOLD" quantity="1" dateTime="20230101" />
</Trades></FlexStatement></FlexStatements></FlexQueryResponse>`},
		{"bad quantity", `<FlexQueryResponse><FlexStatements><FlexStatement accountId="U1"><Trades>
<Trade transactionID="1" symbol="X" buySell="BUY" quantity="ten" dateTime="20230101" />
</Trades></FlexStatement></FlexStatements></FlexQueryResponse>`},
		{"bad time", `<FlexQueryResponse><FlexStatements><FlexStatement accountId="U1"><Trades>
<Trade transactionID="1" symbol="X" buySell="BUY" quantity="1" dateTime="01/01/2023" />
</Trades></FlexStatement></FlexStatements></FlexQueryResponse>`},
		{"two accounts", `<FlexQueryResponse><FlexStatements>
<FlexStatement accountId="U1"></FlexStatement>
<FlexStatement accountId="U2"></FlexStatement>
</FlexStatements></FlexQueryResponse>`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tc.input)); err == nil {
				t.Errorf("Decode() succeeded, want an error")
			}
		})
	}
}

func TestDecode_Cancellations(t *testing.T) {
	const head = `<FlexQueryResponse><FlexStatements><FlexStatement accountId="U1"><Trades>
<Trade transactionID="1" tradeID="11" symbol="X" buySell="BUY" quantity="10" tradePrice="5" dateTime="20230101" />
<Trade transactionID="2" tradeID="12" symbol="X" buySell="BUY" quantity="10" tradePrice="6" dateTime="20230102" />
<Trade transactionID="3" tradeID="13" symbol="X" buySell="SELL" quantity="-10" tradePrice="7" dateTime="20230103" />
`
	const tail = `</Trades></FlexStatement></FlexStatements></FlexQueryResponse>`
	testCases := []struct {
		name   string
		cancel string
		want   []string // remaining ids
	}{
		{
			name:   "by original trade id",
			cancel: `<Trade transactionID="4" symbol="X" buySell="BUY (Ca.)" quantity="-10" tradePrice="6" origTradeID="12" dateTime="20230102" />`,
			want:   []string{"1", "3"},
		},
		{
			name:   "by quantity and price",
			cancel: `<Trade transactionID="4" symbol="X" buySell="BUY (Ca.)" quantity="-10" tradePrice="5" dateTime="20230101" />`,
			want:   []string{"2", "3"},
		},
		{
			name:   "by note code",
			cancel: `<Trade transactionID="4" symbol="X" buySell="SELL" notes="Ca;P" quantity="10" tradePrice="7" dateTime="20230103" />`,
			want:   []string{"1", "2"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := Decode(strings.NewReader(head + tc.cancel + tail))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			var ids []string
			for _, tr := range st.Trades {
				ids = append(ids, tr.ID)
			}
			if !slices.Equal(ids, tc.want) {
				t.Errorf("Decode() trades = %v, want %v", ids, tc.want)
			}
		})
	}

	unknown := `<Trade transactionID="4" symbol="X" buySell="BUY (Ca.)" quantity="-3" tradePrice="5" dateTime="20230101" />`
	if _, err := Decode(strings.NewReader(head + unknown + tail)); !errors.Is(err, ErrUnknownCancellation) {
		t.Errorf("Decode() error = %v, want %v", err, ErrUnknownCancellation)
	}
}

func TestDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		return path
	}
	a := write("2023.xml", report)
	b := write("2024.xml", strings.ReplaceAll(report, `transactionID="10`, `transactionID="20`))
	c := write("other.xml", strings.ReplaceAll(report, "U1234567", "U7654321"))

	st, err := DecodeFiles(a, b)
	if err != nil {
		t.Fatalf("DecodeFiles() error = %v", err)
	}
	if len(st.Trades) != 6 {
		t.Errorf("DecodeFiles() returned %d trades, want 6", len(st.Trades))
	}

	if _, err := DecodeFiles(a, c); !errors.Is(err, ErrAccountMismatch) {
		t.Errorf("DecodeFiles() error = %v, want %v", err, ErrAccountMismatch)
	}
}

func TestCheckAccounts(t *testing.T) {
	trades := []*capgains.Trade{{ID: "1", Account: "U1"}, {ID: "2"}, {ID: "3", Account: "U1"}}
	if err := CheckAccounts(trades); err != nil {
		t.Errorf("CheckAccounts() error = %v", err)
	}
	trades = append(trades, &capgains.Trade{ID: "4", Account: "U2"})
	if err := CheckAccounts(trades); !errors.Is(err, ErrAccountMismatch) {
		t.Errorf("CheckAccounts() error = %v, want %v", err, ErrAccountMismatch)
	}
}
