// Package pricing
package pricing

import (
	"math"

	"github.com/lumenmm/offerbot/internal/market"
)

// Venue-native price precision. Every monetary output is rounded to this many
// decimal places before comparison or submission.
const Decimals = 7

// Defaults for the numeric contracts below. Each is overridable through
// configuration.
const (
	DefaultNotionalCap  = 10000 // per-order cap in counter-asset units
	DefaultExitReserve  = 2     // base-asset units kept back on exit
	DefaultSafetyFactor = 0.99
	DepthSafetyFactor   = 0.95
	DepthTargetScale    = 1.01
	MaxDepthLevels      = 10

	EntryDiscount    = 0.995  // ~0.5% under the reference price
	TakeProfitRatio  = 1.0075 // minimum take-profit over entry
	StopLossFraction = 0.67   // fraction of the profit target given back
)

// Round rounds to venue precision, half away from zero.
func Round(v float64) float64 {
	shift := math.Pow(10, Decimals)
	return math.Round(v*shift) / shift
}

// EntrySize converts the counter balance at the latest close, scaled by the
// safety factor, and caps the result by the per-order notional cap.
func EntrySize(counterBalance, close, cap float64) float64 {
	if close <= 0 {
		return 0
	}
	return Round(math.Min(counterBalance/close*DefaultSafetyFactor, cap/close))
}

// EntryPrice is the lesser of the latest close and the best bid, discounted
// ~0.5%.
func EntryPrice(close, bestBid float64) float64 {
	return Round(math.Min(close, bestBid) * EntryDiscount)
}

// TakeProfit is the greater of a fixed ratio over entry and the recorded
// target deviation added to entry.
func TakeProfit(entry, deviation float64) float64 {
	return Round(math.Max(entry*TakeProfitRatio, entry+deviation))
}

// StopTriggered reports whether the best ask has fallen far enough below the
// entry that the position should be closed at market rather than held for the
// take-profit.
func StopTriggered(bestAsk, entry, takeProfit float64) bool {
	return bestAsk < entry-StopLossFraction*(takeProfit-entry)
}

// ExitSize is the held base balance minus the reserve, scaled by the safety
// factor and floored at zero. A zero result means no order at all rather than
// a zero-amount order.
func ExitSize(baseBalance, reserve, factor float64) float64 {
	size := (baseBalance - reserve) * factor
	if size <= 0 {
		return 0
	}
	return Round(size)
}

// DepthOrder sizes and prices an order against one side of the book: the
// walk consumes levels until the balance-derived target (scaled by
// DepthTargetScale) is covered, and the order amount is capped by both the
// balance-derived amount and the consumed depth, each with a safety margin.
func DepthOrder(levels []market.Level, balanceAmount float64) (price, amount float64) {
	d := market.WalkDepth(levels, balanceAmount*DepthTargetScale, MaxDepthLevels)
	amount = Round(math.Min(balanceAmount*DepthSafetyFactor, d.Amount*DepthSafetyFactor))
	return Round(d.Price), amount
}
