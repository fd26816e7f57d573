// Package position
package position

import (
	"context"
)

// Record is the durable per-market state of an open position. It is created
// the tick an entry order is first placed, read every subsequent tick while
// the base balance indicates the position is held, and cleared once the
// balance drops below the dust threshold. Stale values must never be reused
// after a clear.
type Record struct {
	EntryPrice      float64 `json:"entryPrice"`
	TargetDeviation float64 `json:"targetDeviation"`
	BuySize         float64 `json:"buySize,omitempty"`
	BuyPrice        float64 `json:"buyPrice,omitempty"`
	LastCandleOpen  float64 `json:"lastCandleOpen,omitempty"`
}

// DefaultDustThreshold is the base-asset balance below which a position
// counts as exited.
const DefaultDustThreshold = 1.0

// Book is the in-memory record set for one pass, keyed by market symbol.
// Exactly one engine process owns it; reads and writes are whole-record.
type Book map[string]Record

// Lookup returns the record for a market, if one exists.
func (b Book) Lookup(symbol string) (Record, bool) {
	r, ok := b[symbol]
	return r, ok
}

// Enter stores the record created when an entry order is placed.
func (b Book) Enter(symbol string, r Record) {
	b[symbol] = r
}

// Clear removes a market's record once its balance indicates the position
// was exited.
func (b Book) Clear(symbol string) {
	delete(b, symbol)
}

// Store persists the whole record set: loaded once at the start of a run,
// written once at the end. Implementations must replace the previous
// committed set atomically so a crash mid-save never corrupts it.
type Store interface {
	Load(ctx context.Context) (Book, error)
	Save(ctx context.Context, book Book) error
}
