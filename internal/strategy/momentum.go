package strategy

import (
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/position"
	"github.com/lumenmm/offerbot/internal/pricing"
)

// Momentum is the volume-breakout policy: a burst of volume above
// mean + k*stdev combined with a stretched oscillator triggers a
// depth-priced entry or exit. Without a signal the resting orders are left
// untouched; breakout signals are transient and cancelling a tick later
// would undo every placement.
type Momentum struct {
	params Params
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) Evaluate(in Input) (Decision, error) {
	latest := in.Latest()
	ind := in.Indicators

	burst := latest.Volume > ind.VolumeThreshold
	switch {
	case burst && ind.RSI < s.params.RSIBuyBelow:
		return s.buy(in)
	case burst && ind.RSI > s.params.RSISellAbove:
		return s.sell(in)
	}

	return Decision{
		Buy:    mirror(in.OpenBuys),
		Sell:   mirror(in.OpenSells),
		Record: in.heldRecord(),
	}, nil
}

func (s *Momentum) buy(in Input) (Decision, error) {
	latest := in.Latest()
	if len(in.Book.Asks) == 0 {
		return Decision{}, market.ErrEmptyOrderBook
	}
	if latest.Close <= 0 {
		return Decision{Buy: mirror(in.OpenBuys), Sell: mirror(in.OpenSells), Record: in.heldRecord()}, nil
	}

	price, amount := pricing.DepthOrder(in.Book.Asks, in.CounterBalance/latest.Close)
	if price <= 0 || amount <= 0 {
		return Decision{Buy: mirror(in.OpenBuys), Sell: mirror(in.OpenSells), Record: in.heldRecord()}, nil
	}

	rec := in.heldRecord()
	if rec == nil {
		// First entry wins; re-triggered breakouts do not move the entry.
		rec = &position.Record{EntryPrice: price}
	}

	return Decision{
		Buy:    &order.Desired{Side: order.Buy, Price: price, Amount: amount},
		Sell:   mirror(in.OpenSells),
		Record: rec,
	}, nil
}

func (s *Momentum) sell(in Input) (Decision, error) {
	if len(in.Book.Bids) == 0 {
		return Decision{}, market.ErrEmptyOrderBook
	}

	// A sell signal always clears the resting buy (Buy stays nil), matching
	// the one-order-per-side invariant.
	dec := Decision{Record: in.heldRecord()}

	if in.BaseBalance <= 0 {
		return dec, nil
	}
	price, amount := pricing.DepthOrder(in.Book.Bids, in.BaseBalance)
	if price <= 0 || amount <= 0 {
		return dec, nil
	}
	dec.Sell = &order.Desired{Side: order.Sell, Price: price, Amount: amount}
	return dec, nil
}
