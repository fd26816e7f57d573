// Package engine
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lumenmm/offerbot/internal/candle"
	"github.com/lumenmm/offerbot/internal/indicator"
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/metrics"
	"github.com/lumenmm/offerbot/internal/notifier"
	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/position"
	"github.com/lumenmm/offerbot/internal/strategy"
	"github.com/lumenmm/offerbot/internal/utils"
	"github.com/lumenmm/offerbot/internal/venue"
)

// maxCandlePages bounds the candle backfill per market per pass. Sparse
// markets terminate on an empty page before reaching it.
const maxCandlePages = 5

// Engine runs one reconciliation pass over the configured markets. A single
// engine instance controls a single account; markets are processed strictly
// sequentially because they share one account sequence at the venue.
type Engine struct {
	venue    venue.Client
	store    position.Store
	policy   strategy.Policy
	notifier notifier.Notifier

	markets []market.Market
	bucket  time.Duration
	params  strategy.Params

	mu sync.Mutex // one pass at a time; an overlapping invocation is skipped
}

// New assembles an engine. Params are normalized here so every component
// sees the same defaults.
func New(v venue.Client, store position.Store, policy strategy.Policy, n notifier.Notifier, markets []market.Market, bucket time.Duration, params strategy.Params) *Engine {
	if n == nil {
		n = notifier.Noop{}
	}
	return &Engine{
		venue:    v,
		store:    store,
		policy:   policy,
		notifier: n,
		markets:  markets,
		bucket:   bucket,
		params:   params.Normalize(),
	}
}

// RunPass executes one full pass: load the record set, process every market
// sequentially, save the record set. Per-market errors are logged and
// counted but never abort the pass. There is no retry within a pass; the
// next scheduled invocation is the retry mechanism. Safe to invoke while a
// prior pass is still settling: an overlapping call returns immediately.
func (e *Engine) RunPass(ctx context.Context) error {
	if !e.mu.TryLock() {
		utils.GetLogger().Println("Engine | previous pass still running, skipping")
		return nil
	}
	defer e.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.PassDuration.Set(time.Since(start).Seconds())
	}()

	book, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading position records: %w", err)
	}

	balances, err := e.venue.Balances(ctx)
	if err != nil {
		return fmt.Errorf("fetching balances: %w", err)
	}

	partial := false
	for _, m := range e.markets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := e.processMarket(ctx, m, balances, book); err != nil {
			partial = true
			utils.GetLogger().Printf("Engine | %s: %v", m.Symbol(), err)
			metrics.MarketErrors.WithLabelValues(m.Symbol(), errKind(err)).Inc()
			if errors.Is(err, ErrSubmissionFailure) {
				e.notifier.SendWithRetry(fmt.Sprintf("%s: %v", m.Symbol(), err))
			}
		}
	}

	if err := e.store.Save(ctx, book); err != nil {
		return fmt.Errorf("saving position records: %w", err)
	}

	result := "ok"
	if partial {
		result = "partial"
	}
	metrics.Passes.WithLabelValues(result).Inc()
	return nil
}

// processMarket runs the leaf-first pipeline for one market: market data →
// indicators → policy → reconciler → submission. The book is mutated for
// this market only after its submission succeeded (vacuously when nothing
// needed submitting).
func (e *Engine) processMarket(ctx context.Context, m market.Market, balances market.Balances, book position.Book) error {
	symbol := m.Symbol()

	candles, err := e.fetchWindow(ctx, m)
	if err != nil {
		return fmt.Errorf("fetching candles: %w", err)
	}
	if len(candles) < e.params.Window {
		return fmt.Errorf("%w: have %d candles, need %d", indicator.ErrInsufficientData, len(candles), e.params.Window)
	}

	inds, err := indicator.Compute(candles, e.params.Window, e.params.DeviationK)
	if err != nil {
		return fmt.Errorf("computing indicators: %w", err)
	}

	bookSnap, err := e.venue.OrderBook(ctx, m)
	if err != nil {
		return fmt.Errorf("fetching orderbook: %w", err)
	}

	open, err := e.venue.OpenOrders(ctx, m)
	if err != nil {
		return fmt.Errorf("fetching open orders: %w", err)
	}

	base, ok := balances.BaseFor(m)
	if !ok {
		utils.GetLogger().Printf("Engine | %s: %v, treating as zero", symbol, ErrMissingBalance)
	}

	// Held is re-derived from the live balance each pass. The record itself
	// is always handed to the policy: quoting policies keep non-position
	// state on it (the candle-open token), and only position exits gate on
	// the balance check.
	var record *position.Record
	if rec, exists := book.Lookup(symbol); exists {
		record = &rec
	}

	buys, sells := order.BySide(open)
	decision, err := e.policy.Evaluate(strategy.Input{
		Market:         m,
		Candles:        candles,
		Indicators:     inds,
		Book:           bookSnap,
		BaseBalance:    base,
		CounterBalance: balances.Counter,
		Record:         record,
		Held:           base >= e.params.DustThreshold,
		OpenBuys:       buys,
		OpenSells:      sells,
	})
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", e.policy.Name(), err)
	}

	actions := order.Reconcile(decision.Buy, buys)
	actions = append(actions, order.Reconcile(decision.Sell, sells)...)
	for _, a := range actions {
		metrics.Actions.WithLabelValues(symbol, actionLabel(a)).Inc()
	}

	// Both sides share one outgoing batch: a single atomic submission
	// attempt per market.
	if muts := order.Mutations(actions); len(muts) > 0 {
		if err := e.venue.Submit(ctx, m, muts); err != nil {
			return fmt.Errorf("%w: %v", ErrSubmissionFailure, err)
		}
	}

	if decision.Record != nil {
		book.Enter(symbol, *decision.Record)
	} else {
		book.Clear(symbol)
	}
	return nil
}

// fetchWindow backfills candles iteratively until the indicator window is
// covered, bounded by maxCandlePages, paging further into the past from the
// earliest bucket seen. The result is normalized: ascending, deduplicated.
func (e *Engine) fetchWindow(ctx context.Context, m market.Market) ([]candle.Candle, error) {
	window := e.params.Window
	start := time.Now().UTC().Add(-e.bucket * time.Duration(window))

	var collected []candle.Candle
	for page := 0; page < maxCandlePages; page++ {
		batch, err := e.venue.Candles(ctx, m, e.bucket, start, window)
		if err != nil {
			return nil, err
		}

		collected = candle.Normalize(append(batch, collected...))
		if len(collected) >= window || len(batch) == 0 {
			break
		}
		start = collected[0].Timestamp.Add(-e.bucket * time.Duration(window))
	}
	return collected, nil
}

func actionLabel(a order.Action) string {
	if a.Cancel() {
		return "cancel"
	}
	return a.Type.String()
}
