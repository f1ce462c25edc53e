package capgains

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error reporting malformed or unexpected
// trade data. Such errors are never recovered: the affected instrument is
// dropped from the report.
var ErrInvariant = errors.New("invariant violation")

// InvariantError reports an invariant violation caused by a trade.
type InvariantError struct {
	Trade  *Trade
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Trade == nil {
		return fmt.Sprintf("%v: %s", ErrInvariant, e.Reason)
	}
	return fmt.Sprintf("%v: trade %q (%s): %s", ErrInvariant, e.Trade.ID, e.Trade.Symbol, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

func invariant(t *Trade, format string, args ...any) error {
	return &InvariantError{Trade: t, Reason: fmt.Sprintf(format, args...)}
}
