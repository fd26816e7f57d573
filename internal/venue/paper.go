package venue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumenmm/offerbot/internal/candle"
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/order"
)

// Paper is an in-memory venue used by tests and dry runs. Market data is
// seeded through the setters; submissions mutate the simulated order set
// without fills.
type Paper struct {
	mu       sync.Mutex
	candles  map[string][]candle.Candle
	books    map[string]market.OrderBook
	balances market.Balances
	open     map[string][]order.Open

	// SubmitHook, when set, runs before a submission is applied; returning
	// an error rejects the whole batch.
	SubmitHook func(m market.Market, actions []order.Action) error
}

func NewPaper() *Paper {
	return &Paper{
		candles: make(map[string][]candle.Candle),
		books:   make(map[string]market.OrderBook),
		open:    make(map[string][]order.Open),
		balances: market.Balances{
			Base: make(map[string]float64),
		},
	}
}

func (p *Paper) Name() string { return "paper" }

// SetCandles seeds the candle series for a market.
func (p *Paper) SetCandles(m market.Market, candles []candle.Candle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.candles[m.Symbol()] = candles
}

// SetOrderBook seeds the book snapshot for a market.
func (p *Paper) SetOrderBook(m market.Market, book market.OrderBook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.books[m.Symbol()] = book
}

// SetBalances seeds the account snapshot.
func (p *Paper) SetBalances(base map[string]float64, counter float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances = market.Balances{Base: base, Counter: counter}
}

// SetOpenOrders seeds resting orders for a market.
func (p *Paper) SetOpenOrders(m market.Market, open []order.Open) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open[m.Symbol()] = open
}

func (p *Paper) Candles(ctx context.Context, m market.Market, bucket time.Duration, start time.Time, limit int) ([]candle.Candle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []candle.Candle
	for _, c := range p.candles[m.Symbol()] {
		if c.Timestamp.Before(start) {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (p *Paper) OrderBook(ctx context.Context, m market.Market) (market.OrderBook, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.books[m.Symbol()], nil
}

func (p *Paper) Balances(ctx context.Context) (market.Balances, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	base := make(map[string]float64, len(p.balances.Base))
	for k, v := range p.balances.Base {
		base[k] = v
	}
	return market.Balances{Base: base, Counter: p.balances.Counter}, nil
}

func (p *Paper) OpenOrders(ctx context.Context, m market.Market) ([]order.Open, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	open := p.open[m.Symbol()]
	out := make([]order.Open, len(open))
	copy(out, open)
	return out, nil
}

func (p *Paper) Submit(ctx context.Context, m market.Market, actions []order.Action) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.SubmitHook != nil {
		if err := p.SubmitHook(m, actions); err != nil {
			return err
		}
	}

	// Work on a copy so a rejected action mid-batch leaves nothing applied.
	symbol := m.Symbol()
	open := append([]order.Open(nil), p.open[symbol]...)

	for _, a := range actions {
		switch a.Type {
		case order.NoOp:
			// nothing resting changes
		case order.Place:
			open = append(open, order.Open{
				ID:     uuid.NewString(),
				Side:   a.Order.Side,
				Price:  a.Order.Price,
				Amount: a.Order.Amount,
			})
		case order.Replace:
			idx := -1
			for i, o := range open {
				if o.ID == a.OrderID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("paper venue: unknown order id %s", a.OrderID)
			}
			if a.Cancel() {
				open = append(open[:idx], open[idx+1:]...)
				continue
			}
			open[idx].Price = a.Order.Price
			open[idx].Amount = a.Order.Amount
			open[idx].Side = a.Order.Side
		}
	}

	p.open[symbol] = open
	return nil
}
