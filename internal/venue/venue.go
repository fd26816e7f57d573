// Package venue
package venue

import (
	"context"
	"time"

	"github.com/lumenmm/offerbot/internal/candle"
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/order"
)

// Client is the ledger-client boundary: everything the engine consumes from
// the remote venue. Implementations own wire formats, retries on reads, and
// the venue's order-management primitives; the engine only sees candles,
// books, balances, open orders, and a batch submission per market.
//
// Submit must apply the batch as one atomic attempt: all the actions for a
// market in one pass go out together or not at all. Submission is never
// retried here; the next scheduled pass is the retry mechanism.
type Client interface {
	Name() string
	Candles(ctx context.Context, m market.Market, bucket time.Duration, start time.Time, limit int) ([]candle.Candle, error)
	OrderBook(ctx context.Context, m market.Market) (market.OrderBook, error)
	Balances(ctx context.Context) (market.Balances, error)
	OpenOrders(ctx context.Context, m market.Market) ([]order.Open, error)
	Submit(ctx context.Context, m market.Market, actions []order.Action) error
}
