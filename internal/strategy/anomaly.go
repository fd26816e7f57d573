package strategy

import (
	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/position"
	"github.com/lumenmm/offerbot/internal/pricing"
)

// Anomaly is the mean-reversion policy: enter when the latest candle's low
// breaches the lower band mean(close) - k*stdev(close), exit at the greater
// of a fixed take-profit ratio and the recorded deviation target, with a
// stop-loss override when the book falls away from the entry.
type Anomaly struct {
	params Params
}

func (s *Anomaly) Name() string { return "anomaly" }

func (s *Anomaly) Evaluate(in Input) (Decision, error) {
	if rec := in.heldRecord(); rec != nil {
		return s.exit(in, rec)
	}
	return s.enter(in)
}

func (s *Anomaly) enter(in Input) (Decision, error) {
	latest := in.Latest()

	lowerBand := in.Indicators.CloseMA - s.params.DeviationK*in.Indicators.CloseStdev
	if latest.Low >= lowerBand {
		// No breach: nothing should rest on either side.
		return Decision{}, nil
	}

	bestBid, err := in.Book.BestBid()
	if err != nil {
		return Decision{}, err
	}

	price := pricing.EntryPrice(latest.Close, bestBid.Price)
	size := pricing.EntrySize(in.CounterBalance, latest.Close, s.params.NotionalCap)
	if price <= 0 || size <= 0 {
		return Decision{}, nil
	}

	// The reversion target is the window mean; the deviation is recorded at
	// entry so the exit does not depend on future indicator state.
	deviation := in.Indicators.CloseMA - price
	if deviation < 0 {
		deviation = 0
	}

	rec := &position.Record{
		EntryPrice:      price,
		TargetDeviation: pricing.Round(deviation),
	}
	return Decision{
		Buy:    &order.Desired{Side: order.Buy, Price: price, Amount: size},
		Record: rec,
	}, nil
}

func (s *Anomaly) exit(in Input, held *position.Record) (Decision, error) {
	rec := *held

	takeProfit := pricing.TakeProfit(rec.EntryPrice, rec.TargetDeviation)
	price := takeProfit

	bestAsk, err := in.Book.BestAsk()
	if err != nil {
		return Decision{}, err
	}
	if pricing.StopTriggered(bestAsk.Price, rec.EntryPrice, takeProfit) {
		price = pricing.Round(bestAsk.Price)
	}

	size := pricing.ExitSize(in.BaseBalance, s.params.ExitReserve, pricing.DefaultSafetyFactor)
	if size <= 0 {
		// Balance too small to exit this pass; keep the record and leave
		// nothing resting rather than submit a zero-amount order.
		return Decision{Record: &rec}, nil
	}

	return Decision{
		Sell:   &order.Desired{Side: order.Sell, Price: price, Amount: size},
		Record: &rec,
	}, nil
}
