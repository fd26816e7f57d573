package engine

import (
	"errors"

	"github.com/lumenmm/offerbot/internal/indicator"
	"github.com/lumenmm/offerbot/internal/market"
)

// ErrSubmissionFailure wraps a venue rejection or network failure while
// submitting a market's action batch. It is surfaced per market; the pass
// continues with the next market and is never failed by it.
var ErrSubmissionFailure = errors.New("order submission failed")

// ErrMissingBalance marks an expected asset missing from the account
// snapshot. It is advisory: the balance is treated as zero and only logged.
var ErrMissingBalance = errors.New("asset balance missing from account")

// errKind buckets a per-market error for metrics.
func errKind(err error) string {
	switch {
	case errors.Is(err, indicator.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, market.ErrEmptyOrderBook):
		return "empty_orderbook"
	case errors.Is(err, ErrSubmissionFailure):
		return "submission_failure"
	}
	return "error"
}
