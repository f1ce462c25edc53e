package capgains

import "go.uber.org/zap"

// Observer receives the diagnostics of an engine run.
type Observer interface {
	// SymbolNormalized is called each time a broker suffix was stripped from a
	// symbol. The heuristic can merge two distinct instruments, so it is
	// reported as a warning.
	SymbolNormalized(original, canonical string)
	// InstrumentMatched is called once per instrument successfully processed.
	InstrumentMatched(symbol string, trades, lots int)
	// InstrumentFailed is called when an instrument is dropped because of err.
	InstrumentFailed(symbol string, err error)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) SymbolNormalized(string, string)    {}
func (NopObserver) InstrumentMatched(string, int, int) {}
func (NopObserver) InstrumentFailed(string, error)     {}

// ZapObserver logs diagnostics to a zap logger.
type ZapObserver struct {
	Logger *zap.Logger
}

// NewZapObserver returns an Observer writing to logger.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{Logger: logger}
}

func (o *ZapObserver) SymbolNormalized(original, canonical string) {
	o.Logger.Warn("symbol suffix stripped, trades are grouped under the canonical symbol",
		zap.String("symbol", original),
		zap.String("canonical", canonical),
	)
}

func (o *ZapObserver) InstrumentMatched(symbol string, trades, lots int) {
	o.Logger.Debug("instrument matched",
		zap.String("symbol", symbol),
		zap.Int("trades", trades),
		zap.Int("lots", lots),
	)
}

func (o *ZapObserver) InstrumentFailed(symbol string, err error) {
	o.Logger.Error("instrument dropped", zap.String("symbol", symbol), zap.Error(err))
}
