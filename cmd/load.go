package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/flex"
	"go.uber.org/zap"
)

// decodeFile reads the trades of a file, the format is picked by extension.
func decodeFile(path string) ([]*capgains.Trade, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xml" {
		st, err := flex.DecodeFile(path)
		if err != nil {
			return nil, err
		}
		return st.Trades, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var trades []*capgains.Trade
	switch ext {
	case ".jsonl":
		trades, err = capgains.DecodeTrades(f)
	case ".json":
		trades, err = capgains.DecodeTradesJSON(f, JSONPath())
	default:
		return nil, fmt.Errorf("%s: unsupported file extension %q, want .xml, .jsonl or .json", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trades, nil
}

// loadTrades reads the trades of all files. They must belong to a single account.
func loadTrades(logger *zap.Logger, paths []string) ([]*capgains.Trade, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no trade file")
	}
	var trades []*capgains.Trade
	for _, path := range paths {
		t, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("trades loaded", zap.String("file", path), zap.Int("trades", len(t)))
		trades = append(trades, t...)
	}
	if err := flex.CheckAccounts(trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// loadReport reads trade files and runs the engine on them.
func loadReport(paths []string) (*capgains.Report, error) {
	year, err := Year()
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(*Verbose)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	trades, err := loadTrades(logger, paths)
	if err != nil {
		return nil, err
	}
	e := capgains.Engine{Year: year, Observer: capgains.NewZapObserver(logger)}
	report, err := e.Run(trades)
	if err != nil {
		// a report missing instruments is wrong, not partial.
		return nil, err
	}
	logger.Debug("report ready", zap.Int("year", year), zap.Strings("instruments", report.Instruments), zap.Int("lots", len(report.Lots)))
	return report, nil
}
