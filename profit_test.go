package capgains

import (
	"errors"
	"testing"
)

// matchAndCompute matches trades and computes their profits.
func matchAndCompute(t *testing.T, trades ...*Trade) []*Lot {
	t.Helper()
	lots, err := MatchLots(trades)
	if err != nil {
		t.Fatalf("MatchLots() error = %v", err)
	}
	if err := ComputeProfits(lots); err != nil {
		t.Fatalf("ComputeProfits() error = %v", err)
	}
	return lots
}

func TestComputeProfits(t *testing.T) {
	type profit struct {
		open, close string
		realized    bool
	}
	testCases := []struct {
		name   string
		trades []*Trade
		want   []profit
	}{
		{
			name: "long",
			trades: []*Trade{
				buy("A", "SAP", day(0), "100", "10", "1"),
				sell("B", "SAP", day(1), "60", "12", "0.6"),
				sell("C", "SAP", day(2), "40", "11", "0.5"),
			},
			want: []profit{
				{"0", "118.8", true},
				{"0", "39.1", true},
			},
		},
		{
			name: "short",
			trades: []*Trade{
				sell("S", "SAP", day(0), "10", "50", "1"),
				buy("B", "SAP", day(1), "10", "45", "1"),
			},
			want: []profit{
				{"499", "-451", true},
			},
		},
		{
			name: "open short is recognized at once",
			trades: []*Trade{
				sell("S", "SAP", day(0), "10", "50", "1"),
				buy("B", "SAP", day(1), "4", "45", "0"),
			},
			want: []profit{
				{"199.6", "-180", true},
				{"299.4", "0", false},
			},
		},
		{
			name: "open long realizes nothing",
			trades: []*Trade{
				buy("A", "SAP", day(0), "10", "10", "1"),
			},
			want: []profit{
				{"0", "0", false},
			},
		},
		{
			name: "uneven fee split",
			trades: []*Trade{
				buy("A", "SAP", day(0), "3", "10", "1"),
				sell("B", "SAP", day(1), "1", "10", "0"),
				sell("C", "SAP", day(2), "1", "10", "0"),
				sell("D", "SAP", day(3), "1", "10", "0"),
			},
			want: []profit{
				{"0", "-0.33", true},
				{"0", "-0.34", true},
				{"0", "-0.33", true},
			},
		},
		{
			name: "even fee split",
			trades: []*Trade{
				buy("A", "SAP", day(0), "100", "10", "2"),
				sell("B", "SAP", day(1), "25", "10", "0"),
				sell("C", "SAP", day(2), "25", "10", "0"),
				sell("D", "SAP", day(3), "25", "10", "0"),
				sell("E", "SAP", day(4), "25", "10", "0"),
			},
			want: []profit{
				{"0", "-0.5", true},
				{"0", "-0.5", true},
				{"0", "-0.5", true},
				{"0", "-0.5", true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lots := matchAndCompute(t, tc.trades...)
			if len(lots) != len(tc.want) {
				t.Fatalf("got %d lots, want %d", len(lots), len(tc.want))
			}
			for i, w := range tc.want {
				p := lots[i].Profit
				if p == nil {
					t.Fatalf("lot #%d has no profit", i)
				}
				if !p.Open.Equal(EUR(dec(w.open))) || p.Realized != w.realized || (p.Realized && !p.Close.Equal(EUR(dec(w.close)))) {
					t.Errorf("lot #%d profit = {%v %v %v}, want %v", i, p.Open.Decimal(), p.Close.Decimal(), p.Realized, w)
				}
			}
		})
	}
}

func TestComputeProfits_FeeConservation(t *testing.T) {
	// 7 units bought, sold in uneven pieces: the opening fee must be found
	// back exactly in the close profits.
	trades := []*Trade{
		buy("A", "SAP", day(0), "7", "10", "1.01"),
		sell("B", "SAP", day(1), "2", "10", "0"),
		sell("C", "SAP", day(2), "3", "10", "0"),
		sell("D", "SAP", day(3), "1", "10", "0"),
		sell("E", "SAP", day(4), "1", "10", "0"),
	}
	lots := matchAndCompute(t, trades...)
	if got, want := Sum(lots).Realized(), EUR(dec("-1.01")); !got.Equal(want) {
		t.Errorf("Sum().Realized() = %v, want %v", got.Decimal(), want.Decimal())
	}
	for i, l := range lots {
		if d := l.Profit.Close.Decimal(); !d.Equal(d.Round(2)) {
			t.Errorf("lot #%d close profit %v is not rounded to cents", i, d)
		}
	}
}

func TestComputeProfits_Invariants(t *testing.T) {
	a := buy("A", "SAP", day(0), "100", "10", "1")
	b := sell("B", "SAP", day(1), "60", "12", "0")
	c := buy("C", "SAP", day(2), "60", "12", "0")
	d := sell("D", "SAP", day(3), "60", "12", "0")
	badSide := buy("E", "SAP", day(0), "10", "10", "0")
	badSide.Side = ""

	testCases := []struct {
		name string
		lots []*Lot
	}{
		{
			name: "same direction",
			lots: []*Lot{{Opening: a, Quantity: Q(60), Closing: c}},
		},
		{
			name: "over consumed trade",
			lots: []*Lot{
				{Opening: a, Quantity: Q(60), Closing: b},
				{Opening: a, Quantity: Q(60), Closing: d},
			},
		},
		{
			name: "unknown side",
			lots: []*Lot{{Opening: badSide, Quantity: Q(10)}},
		},
		{
			name: "side disagrees with quantity",
			lots: []*Lot{{Opening: &Trade{ID: "X", Side: Sell, Quantity: Q(10)}, Quantity: Q(10)}},
		},
		{
			name: "empty lot",
			lots: []*Lot{{Opening: a, Quantity: Q(0)}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ComputeProfits(tc.lots)
			if !errors.Is(err, ErrInvariant) {
				t.Fatalf("ComputeProfits() error = %v, want %v", err, ErrInvariant)
			}
			for i, l := range tc.lots {
				if l.Profit != nil {
					t.Errorf("lot #%d was modified despite the error", i)
				}
			}
		})
	}
}

func TestTradeProfits(t *testing.T) {
	a := buy("A", "SAP", day(0), "100", "10", "1")
	b := sell("B", "SAP", day(1), "60", "12", "0.6")
	c := sell("C", "SAP", day(2), "40", "11", "0.5")
	lots := matchAndCompute(t, a, b, c)

	got := TradeProfits(lots)
	want := map[*Trade]string{a: "0", b: "118.8", c: "39.1"}
	for tr, w := range want {
		if !got[tr].Equal(EUR(dec(w))) {
			t.Errorf("TradeProfits()[%s] = %v, want %v", tr.ID, got[tr].Decimal(), w)
		}
	}
}
