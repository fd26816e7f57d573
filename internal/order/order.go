// Package order
package order

import (
	"fmt"
	"strconv"

	"github.com/lumenmm/offerbot/internal/market"
)

// Side of an order relative to the base asset.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Open is an order currently resting at the venue. The venue owns it; the
// engine only observes and proposes mutations.
type Open struct {
	ID      string
	Side    Side
	Selling market.Asset
	Buying  market.Asset
	Price   float64
	Amount  float64
}

// Desired is the engine's proposed order for one side of one market this
// tick. Derived each pass, never persisted.
type Desired struct {
	Side   Side
	Price  float64
	Amount float64
}

// ActionType discriminates reconciler output.
type ActionType int

const (
	NoOp ActionType = iota
	Place
	Replace
)

func (t ActionType) String() string {
	switch t {
	case NoOp:
		return "noop"
	case Place:
		return "place"
	case Replace:
		return "replace"
	}
	return fmt.Sprintf("action(%d)", int(t))
}

// Action is one proposed venue mutation. A Replace with Amount 0 cancels the
// existing order; the venue's order-management primitive must support
// mutate-by-id with that meaning.
type Action struct {
	Type    ActionType
	OrderID string // existing order for Replace and NoOp, empty for Place
	Order   Desired
}

// Cancel reports whether the action removes a resting order outright.
func (a Action) Cancel() bool {
	return a.Type == Replace && a.Order.Amount == 0
}

// idLess orders venue IDs numerically when both parse, lexicographically
// otherwise.
func idLess(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
