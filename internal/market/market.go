// Package market
package market

import (
	"errors"
	"fmt"
)

// ErrEmptyOrderBook is returned when a side of the book has no levels.
// Pricing for the market is skipped for the pass.
var ErrEmptyOrderBook = errors.New("empty orderbook")

// Asset identifies a tradable asset by code and, for non-native assets, the
// issuing account.
type Asset struct {
	Code   string `yaml:"code" json:"code"`
	Issuer string `yaml:"issuer" json:"issuer"`
}

// Native reports whether the asset is the ledger-native one (no issuer).
func (a Asset) Native() bool { return a.Issuer == "" }

// Market is one base asset traded against the fixed counter asset. Immutable
// for the process lifetime.
type Market struct {
	Base    Asset
	Counter Asset
}

// Symbol returns the canonical BASE-COUNTER identifier used to key records,
// logs, and metrics.
func (m Market) Symbol() string {
	return fmt.Sprintf("%s-%s", m.Base.Code, m.Counter.Code)
}

// Level is one price level of an orderbook side.
type Level struct {
	Price  float64
	Amount float64
}

// OrderBook is an L2 snapshot: asks ascending by price, bids descending.
type OrderBook struct {
	Asks []Level
	Bids []Level
}

// BestAsk returns the lowest ask.
func (ob OrderBook) BestAsk() (Level, error) {
	if len(ob.Asks) == 0 {
		return Level{}, ErrEmptyOrderBook
	}
	return ob.Asks[0], nil
}

// BestBid returns the highest bid.
func (ob OrderBook) BestBid() (Level, error) {
	if len(ob.Bids) == 0 {
		return Level{}, ErrEmptyOrderBook
	}
	return ob.Bids[0], nil
}

// Depth is the result of walking one book side toward a target amount.
type Depth struct {
	Price  float64 // price of the deepest level consumed
	Amount float64 // cumulative amount across consumed levels
}

// WalkDepth accumulates levels until the running amount covers target,
// checking the target before each level is consumed, over at most maxLevels
// levels. The returned price is the price of the last consumed level; the
// amount may stop short of target on a thin book.
func WalkDepth(levels []Level, target float64, maxLevels int) Depth {
	var d Depth
	for i := 0; i < len(levels) && i < maxLevels; i++ {
		if d.Amount >= target {
			break
		}
		d.Price = levels[i].Price
		d.Amount += levels[i].Amount
	}
	return d
}

// Balances is the account snapshot for one pass: base-asset balances keyed by
// asset code plus the single shared counter-asset balance.
type Balances struct {
	Base    map[string]float64
	Counter float64
}

// BaseFor returns the base balance for a market. A missing entry is zero, not
// an error; the caller logs it.
func (b Balances) BaseFor(m Market) (float64, bool) {
	v, ok := b.Base[m.Base.Code]
	return v, ok
}
