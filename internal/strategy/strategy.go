// Package strategy
package strategy

import (
	"fmt"

	"github.com/lumenmm/offerbot/internal/candle"
	"github.com/lumenmm/offerbot/internal/indicator"
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/position"
	"github.com/lumenmm/offerbot/internal/pricing"
)

// Params are the numeric knobs shared by the policies. Zero values are
// replaced by defaults in Normalize.
type Params struct {
	Window        int     // candle window for indicators
	DeviationK    float64 // stdev multiplier for thresholds
	NotionalCap   float64 // per-order cap in counter-asset units
	ExitReserve   float64 // base-asset units withheld from exits
	DustThreshold float64 // base balance below which a position is exited
	RSIBuyBelow   float64
	RSISellAbove  float64
}

// Normalize fills unset parameters with their defaults.
func (p Params) Normalize() Params {
	if p.Window == 0 {
		p.Window = 20
	}
	if p.DeviationK == 0 {
		p.DeviationK = 2
	}
	if p.NotionalCap == 0 {
		p.NotionalCap = pricing.DefaultNotionalCap
	}
	if p.ExitReserve == 0 {
		p.ExitReserve = pricing.DefaultExitReserve
	}
	if p.DustThreshold == 0 {
		p.DustThreshold = position.DefaultDustThreshold
	}
	if p.RSIBuyBelow == 0 {
		p.RSIBuyBelow = 40
	}
	if p.RSISellAbove == 0 {
		p.RSISellAbove = 60
	}
	return p
}

// Input is everything a policy may consult for one market in one pass.
// Candles are normalized and ascending. Record is surfaced whenever one is
// stored, even when the balance says no position is open: quoting policies
// keep non-position state on it. Held carries the balance fact.
type Input struct {
	Market         market.Market
	Candles        []candle.Candle
	Indicators     indicator.Set
	Book           market.OrderBook
	BaseBalance    float64
	CounterBalance float64
	Record         *position.Record
	Held           bool
	OpenBuys       []order.Open
	OpenSells      []order.Open
}

// Latest returns the most recent candle.
func (in Input) Latest() candle.Candle {
	return in.Candles[len(in.Candles)-1]
}

// heldRecord returns the record only while the balance indicates the
// position is actually held. Stale entry terms must never drive an exit.
func (in Input) heldRecord() *position.Record {
	if !in.Held {
		return nil
	}
	return in.Record
}

// Decision is the policy's desired standing state for the market. A nil side
// means no order should rest there; the reconciler cancels whatever does.
// Record is the position record to persist once this market's submission
// succeeds; nil clears it.
type Decision struct {
	Buy    *order.Desired
	Sell   *order.Desired
	Record *position.Record
}

// Policy turns market data into a desired order per side. Implementations
// are pure with respect to venue state: they never submit, they only decide.
type Policy interface {
	Name() string
	Evaluate(in Input) (Decision, error)
}

// New selects a policy by configured name.
func New(name string, p Params) (Policy, error) {
	p = p.Normalize()
	switch name {
	case "anomaly":
		return &Anomaly{params: p}, nil
	case "momentum":
		return &Momentum{params: p}, nil
	case "maker":
		return &Maker{params: p}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// mirror turns the lowest-id resting order into the desired order, so the
// reconciler leaves it in place (and still collapses any duplicates).
func mirror(open []order.Open) *order.Desired {
	if len(open) == 0 {
		return nil
	}
	keep := order.Lowest(open)
	return &order.Desired{Side: keep.Side, Price: keep.Price, Amount: keep.Amount}
}
