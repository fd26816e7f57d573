package venue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	wallex "github.com/wallexchange/wallex-go"

	"github.com/lumenmm/offerbot/internal/candle"
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/utils"
)

// resolutions maps candle bucket sizes to wallex chart resolutions.
var resolutions = map[time.Duration]string{
	time.Minute:        "1",
	5 * time.Minute:    "5",
	15 * time.Minute:   "15",
	time.Hour:          "60",
	4 * time.Hour:      "240",
	24 * time.Hour:     "1D",
	7 * 24 * time.Hour: "1W",
}

// Wallex adapts the wallex exchange to the Client interface. The venue has
// no mutate-by-id primitive, so Replace is emulated as cancel followed by
// place; orders the adapter placed are tracked by client order ID so
// OpenOrders can be answered from order-status lookups.
type Wallex struct {
	client  *wallex.Client
	counter market.Asset

	mu      sync.Mutex
	tracked map[string][]string // market symbol -> live client order IDs
}

func NewWallex(apiKey string, counter market.Asset) *Wallex {
	return &Wallex{
		client:  wallex.New(wallex.ClientOptions{APIKey: apiKey}),
		counter: counter,
		tracked: make(map[string][]string),
	}
}

func (w *Wallex) Name() string { return "wallex" }

// retry wraps read calls with capped exponential backoff. Submissions never
// go through here.
func retry(attempts int, delay time.Duration, fn func() error) error {
	backoff := delay
	for i := 1; i <= attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		utils.GetLogger().Printf("Venue | wallex retry attempt %d/%d failed: %v. Backing off for %v", i, attempts, err, backoff)
		time.Sleep(backoff)
		if backoff < time.Minute {
			backoff *= 2
		}
	}
	return errors.New("all retry attempts failed")
}

func pairSymbol(m market.Market) string {
	return m.Base.Code + m.Counter.Code
}

func (w *Wallex) Candles(ctx context.Context, m market.Market, bucket time.Duration, start time.Time, limit int) ([]candle.Candle, error) {
	resolution, ok := resolutions[bucket]
	if !ok {
		return nil, fmt.Errorf("unsupported candle bucket: %v", bucket)
	}

	end := start.Add(bucket * time.Duration(limit))
	if now := time.Now().UTC(); end.After(now) {
		end = now
	}

	var raw []*wallex.Candle
	err := retry(3, 2*time.Second, func() error {
		var err error
		raw, err = w.client.Candles(pairSymbol(m), resolution, start, end)
		if err != nil {
			return fmt.Errorf("fetching candles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var candles []candle.Candle
	for _, wc := range raw {
		c := candle.Candle{
			Timestamp: wc.Timestamp.UTC().Truncate(bucket),
			Open:      number(&wc.Open),
			High:      number(&wc.High),
			Low:       number(&wc.Low),
			Close:     number(&wc.Close),
			Volume:    number(&wc.Volume),
			Symbol:    m.Symbol(),
		}
		if err := c.Validate(); err != nil {
			continue // skip malformed buckets
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func (w *Wallex) OrderBook(ctx context.Context, m market.Market) (market.OrderBook, error) {
	var asks, bids []*wallex.MarketOrder
	err := retry(3, 2*time.Second, func() error {
		var err error
		asks, bids, err = w.client.MarketOrders(pairSymbol(m))
		if err != nil {
			return fmt.Errorf("fetching orderbook: %w", err)
		}
		return nil
	})
	if err != nil {
		return market.OrderBook{}, err
	}

	book := market.OrderBook{}
	for _, a := range asks {
		book.Asks = append(book.Asks, market.Level{Price: number(&a.Price), Amount: number(&a.Quantity)})
	}
	for _, b := range bids {
		book.Bids = append(book.Bids, market.Level{Price: number(&b.Price), Amount: number(&b.Quantity)})
	}
	return book, nil
}

func (w *Wallex) Balances(ctx context.Context) (market.Balances, error) {
	var raw map[string]*wallex.Balance
	err := retry(3, 2*time.Second, func() error {
		var err error
		raw, err = w.client.Balances()
		if err != nil {
			return fmt.Errorf("fetching balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return market.Balances{}, err
	}

	balances := market.Balances{Base: make(map[string]float64, len(raw))}
	for asset, b := range raw {
		available, _ := strconv.ParseFloat(string(b.Value), 64)
		if asset == w.counter.Code {
			balances.Counter = available
			continue
		}
		balances.Base[asset] = available
	}
	return balances, nil
}

func (w *Wallex) OpenOrders(ctx context.Context, m market.Market) ([]order.Open, error) {
	w.mu.Lock()
	ids := append([]string(nil), w.tracked[m.Symbol()]...)
	w.mu.Unlock()

	var open []order.Open
	var live []string
	for _, id := range ids {
		resp, err := w.client.Order(id)
		if err != nil {
			return nil, fmt.Errorf("fetching order %s: %w", id, err)
		}
		if strings.ToUpper(resp.Status) != "NEW" {
			continue // filled or cancelled; drop from tracking
		}
		live = append(live, id)
		open = append(open, order.Open{
			ID:     id,
			Side:   order.Side(strings.ToLower(resp.Side)),
			Price:  number(&resp.Price),
			Amount: number(&resp.OrigQty),
		})
	}

	w.mu.Lock()
	w.tracked[m.Symbol()] = live
	w.mu.Unlock()
	return open, nil
}

func (w *Wallex) Submit(ctx context.Context, m market.Market, actions []order.Action) error {
	symbol := m.Symbol()
	for _, a := range actions {
		switch a.Type {
		case order.NoOp:
			continue
		case order.Place:
			if err := w.place(m, a.Order); err != nil {
				return err
			}
		case order.Replace:
			if err := w.cancel(symbol, a.OrderID); err != nil {
				return err
			}
			if a.Cancel() {
				continue
			}
			if err := w.place(m, a.Order); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Wallex) place(m market.Market, d order.Desired) error {
	params := &wallex.OrderParams{
		Symbol:   pairSymbol(m),
		Type:     "LIMIT",
		Side:     strings.ToUpper(string(d.Side)),
		Price:    wallex.Number(strconv.FormatFloat(d.Price, 'f', 7, 64)),
		Quantity: wallex.Number(strconv.FormatFloat(d.Amount, 'f', 7, 64)),
	}
	resp, err := w.client.PlaceOrder(params)
	if err != nil {
		return fmt.Errorf("placing %s order on %s: %w", d.Side, m.Symbol(), err)
	}

	w.mu.Lock()
	w.tracked[m.Symbol()] = append(w.tracked[m.Symbol()], resp.ClientOrderID)
	w.mu.Unlock()
	return nil
}

func (w *Wallex) cancel(symbol, id string) error {
	if err := w.client.CancelOrder(id); err != nil {
		return fmt.Errorf("cancelling order %s: %w", id, err)
	}

	w.mu.Lock()
	ids := w.tracked[symbol]
	for i, tracked := range ids {
		if tracked == id {
			w.tracked[symbol] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	w.mu.Unlock()
	return nil
}

// number safely converts a wallex decimal string.
func number(n *wallex.Number) float64 {
	if n == nil {
		return 0
	}
	out, _ := strconv.ParseFloat(string(*n), 64)
	return out
}
