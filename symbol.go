package capgains

import (
	"unicode"
	"unicode/utf8"
)

// NormalizeSymbol returns the canonical form of a broker symbol.
//
// Brokers append a lowercase letter to some foreign listed securities
// (e.g. "SAPd"). When the last character is a lowercase letter it is removed
// and stripped is true.
func NormalizeSymbol(symbol string) (canonical string, stripped bool) {
	r, size := utf8.DecodeLastRuneInString(symbol)
	if size == 0 || size == len(symbol) || !unicode.IsLower(r) {
		return symbol, false
	}
	return symbol[:len(symbol)-size], true
}

// Instrument is the list of trades quoted under one canonical symbol.
type Instrument struct {
	Symbol string
	Trades []*Trade
}

// GroupBySymbol groups trades by canonical symbol. Instruments are returned in
// order of first appearance, trades keep their input order.
// Every stripped suffix is reported to obs, which may be nil.
func GroupBySymbol(trades []*Trade, obs Observer) []Instrument {
	if obs == nil {
		obs = NopObserver{}
	}
	var instruments []Instrument
	index := make(map[string]int)
	for _, t := range trades {
		symbol, stripped := NormalizeSymbol(t.Symbol)
		if stripped {
			obs.SymbolNormalized(t.Symbol, symbol)
		}
		i, ok := index[symbol]
		if !ok {
			i = len(instruments)
			index[symbol] = i
			instruments = append(instruments, Instrument{Symbol: symbol})
		}
		instruments[i].Trades = append(instruments[i].Trades, t)
	}
	return instruments
}
