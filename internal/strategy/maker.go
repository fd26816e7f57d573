package strategy

import (
	"math"

	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/position"
	"github.com/lumenmm/offerbot/internal/pricing"
)

// Maker spread multipliers: the ask rests two 0.1% steps over the recorded
// buy price, and is repriced to the best bid once the bid falls 1% under it.
const (
	makerAskStep      = 1.001
	makerRepriceLevel = 0.99
)

// Maker is the candle-delta market-making policy. While the base holding is
// worth less than the counter balance it keeps one discounted buy resting,
// refreshed when a new candle period opens; once the holding dominates it
// keeps one ask resting above the recorded buy price.
type Maker struct {
	params Params
}

func (s *Maker) Name() string { return "maker" }

func (s *Maker) Evaluate(in Input) (Decision, error) {
	latest := in.Latest()

	if in.BaseBalance*latest.Close < in.CounterBalance {
		return s.quoteBuy(in)
	}
	return s.quoteSell(in)
}

func (s *Maker) quoteBuy(in Input) (Decision, error) {
	latest := in.Latest()

	bestAsk, err := in.Book.BestAsk()
	if err != nil {
		return Decision{}, err
	}
	bestBid, err := in.Book.BestBid()
	if err != nil {
		return Decision{}, err
	}
	if bestAsk.Price <= 0 {
		// Malformed level; never divide by it.
		return Decision{Record: in.Record}, nil
	}

	size := pricing.Round(math.Min(in.CounterBalance, s.params.NotionalCap) / bestAsk.Price)
	price := pricing.Round(math.Max(math.Min(latest.Close, bestBid.Price), 0) * pricing.EntryDiscount)
	if size <= 0 || price <= 0 {
		return Decision{Record: in.Record}, nil
	}

	samePeriod := in.Record != nil && in.Record.LastCandleOpen == latest.Open
	if len(in.OpenBuys) > 0 && samePeriod {
		// Same candle period: the resting quote stands.
		return Decision{Buy: mirror(in.OpenBuys), Record: in.Record}, nil
	}

	rec := position.Record{}
	if in.Record != nil {
		rec = *in.Record
	}
	rec.EntryPrice = price
	rec.BuyPrice = price
	rec.BuySize = size
	rec.LastCandleOpen = latest.Open

	return Decision{
		Buy:    &order.Desired{Side: order.Buy, Price: price, Amount: size},
		Record: &rec,
	}, nil
}

func (s *Maker) quoteSell(in Input) (Decision, error) {
	latest := in.Latest()

	if in.Record == nil || in.Record.BuySize <= 0 {
		// Holding without a usable record (first run after a manual fill or
		// a cleared record): leave whatever rests alone rather than price an
		// ask off stale data.
		return Decision{Sell: mirror(in.OpenSells)}, nil
	}

	bestAsk, err := in.Book.BestAsk()
	if err != nil {
		return Decision{}, err
	}
	bestBid, err := in.Book.BestBid()
	if err != nil {
		return Decision{}, err
	}

	rec := *in.Record
	rec.LastCandleOpen = latest.Open

	price := pricing.Round(math.Max(rec.BuyPrice*makerAskStep*makerAskStep, bestAsk.Price))
	desired := &order.Desired{Side: order.Sell, Price: price, Amount: rec.BuySize}

	if len(in.OpenSells) > 0 {
		if bestBid.Price < rec.BuyPrice*makerRepriceLevel {
			// Price has fallen away from the fill; chase the bid to unwind.
			desired.Price = pricing.Round(bestBid.Price)
		} else {
			desired = mirror(in.OpenSells)
		}
	}

	return Decision{Sell: desired, Record: &rec}, nil
}
