package capgains

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestEngine_Run(t *testing.T) {
	bad := sell("X2", "AAPL", day(3), "5", "150", "0")
	bad.Side = "short"
	trades := []*Trade{
		buy("A", "SAP", day(0), "100", "10", "1"),
		buy("X1", "AAPL", day(1), "5", "140", "0"),
		sell("B", "SAPd", day(2), "60", "12", "0.6"),
		bad,
		sell("C", "SAP", day(4), "40", "11", "0.5"),
	}
	var rec recorder
	e := Engine{Observer: &rec}
	report, err := e.Run(trades)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("Run() error = %v, want %v", err, ErrInvariant)
	}
	if want := []string{"SAP"}; !slices.Equal(report.Instruments, want) {
		t.Errorf("Run() instruments = %v, want %v", report.Instruments, want)
	}
	if want := []string{"AAPL"}; !slices.Equal(rec.failed, want) {
		t.Errorf("observer failures = %v, want %v", rec.failed, want)
	}
	if len(rec.normalized) != 1 {
		t.Errorf("observer normalizations = %v, want one", rec.normalized)
	}
	if got, want := report.Totals().Realized(), EUR(dec("157.9")); !got.Equal(want) {
		t.Errorf("Run() total = %v, want %v", got.Decimal(), want.Decimal())
	}

	var ids []string
	for _, tr := range report.Trades() {
		ids = append(ids, tr.ID)
	}
	if want := []string{"A", "B", "C"}; !slices.Equal(ids, want) {
		t.Errorf("Report.Trades() = %v, want %v", ids, want)
	}
}

func TestEngine_Year(t *testing.T) {
	trades := []*Trade{
		buy("A", "SAP", time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), "10", "10", "0"),
		sell("B", "SAP", time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), "5", "12", "0"),
		sell("S", "XYZ", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), "1", "50", "0"),
	}
	testCases := []struct {
		year  int
		lots  int
		total string
	}{
		{0, 3, "60"},    // 10 + 50
		{2022, 1, "50"}, // short proceeds
		{2023, 1, "10"},
		{2024, 0, "0"},
	}
	for _, tc := range testCases {
		e := Engine{Year: tc.year}
		report, err := e.Run(trades)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(report.Lots) != tc.lots {
			t.Errorf("Run() with year %d has %d lots, want %d", tc.year, len(report.Lots), tc.lots)
		}
		if got := report.Totals().Realized(); !got.Equal(EUR(dec(tc.total))) {
			t.Errorf("Run() with year %d total = %v, want %v", tc.year, got.Decimal(), tc.total)
		}
	}
}

func TestReport_GainsBySymbol(t *testing.T) {
	e := Engine{}
	report, err := e.Run([]*Trade{
		buy("A", "SAP", day(0), "10", "10", "0"),
		sell("S", "XYZ", day(1), "1", "50", "0"),
		sell("B", "SAP", day(2), "10", "12", "0"),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	gains := report.GainsBySymbol()
	if len(gains) != 2 {
		t.Fatalf("GainsBySymbol() = %v, want 2 symbols", gains)
	}
	if gains[0].Symbol != "SAP" || !gains[0].Totals.Realized().Equal(EUR(20)) {
		t.Errorf("GainsBySymbol()[0] = %s %v, want SAP 20", gains[0].Symbol, gains[0].Totals.Realized().Decimal())
	}
	if gains[1].Symbol != "XYZ" || !gains[1].Totals.Realized().Equal(EUR(50)) {
		t.Errorf("GainsBySymbol()[1] = %s %v, want XYZ 50", gains[1].Symbol, gains[1].Totals.Realized().Decimal())
	}
}

func TestEngine_ShortAcrossYears(t *testing.T) {
	trades := []*Trade{
		sell("S", "XYZ", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), "1", "50", "0"),
		buy("T", "XYZ", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), "1", "45", "0"),
	}
	testCases := []struct {
		year       int
		open       string
		close      string
		groupClose string // profit of the group closed by T
	}{
		{0, "50", "-45", "-45"},
		{2022, "50", "0", "0"},
		{2023, "0", "-45", "-45"},
	}
	var sum Money
	for _, tc := range testCases {
		e := Engine{Year: tc.year}
		report, err := e.Run(trades)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		totals := report.Totals()
		if !totals.Open.Equal(EUR(dec(tc.open))) || !totals.Close.Equal(EUR(dec(tc.close))) {
			t.Errorf("year %d: Totals() = open %v close %v, want open %s close %s",
				tc.year, totals.Open.Decimal(), totals.Close.Decimal(), tc.open, tc.close)
		}
		gains := report.GainsBySymbol()
		if len(gains) != 1 || !gains[0].Totals.Realized().Equal(totals.Realized()) {
			t.Errorf("year %d: GainsBySymbol() = %v, want one symbol realizing %v", tc.year, gains, totals.Realized().Decimal())
		}
		view := report.CloseFirst()
		if got := view.Totals().Realized(); !got.Equal(totals.Realized()) {
			t.Errorf("year %d: CloseFirst().Totals() = %v, want %v", tc.year, got.Decimal(), totals.Realized().Decimal())
		}
		if len(view.Groups) != 1 || !view.Groups[0].Profit().Equal(EUR(dec(tc.groupClose))) {
			t.Errorf("year %d: CloseFirst() groups = %v, want one group with profit %s", tc.year, view.Groups, tc.groupClose)
		}
		if tc.year != 0 {
			sum = sum.Add(totals.Realized())
		}
	}
	if !sum.Equal(EUR(5)) {
		t.Errorf("sum of the yearly reports = %v, want 5", sum.Decimal())
	}
}
