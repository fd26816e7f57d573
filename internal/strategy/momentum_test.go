package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenmm/offerbot/internal/indicator"
	"github.com/lumenmm/offerbot/internal/market"
	"github.com/lumenmm/offerbot/internal/order"
	"github.com/lumenmm/offerbot/internal/position"
)

func momentumInput() Input {
	return Input{
		Market:  testMarket,
		Candles: series(20, 10, 10, 9, 10, 100),
		Indicators: indicator.Set{
			VolumeThreshold: 35,
			RSI:             50,
		},
		Book: market.OrderBook{
			Asks: []market.Level{
				{Price: 10, Amount: 30},
				{Price: 11, Amount: 30},
				{Price: 12, Amount: 30},
			},
			Bids: []market.Level{
				{Price: 9.9, Amount: 30},
				{Price: 9.8, Amount: 30},
				{Price: 9.7, Amount: 30},
			},
		},
		BaseBalance:    50,
		CounterBalance: 500,
	}
}

func TestMomentumBuySignal(t *testing.T) {
	policy, err := New("momentum", Params{})
	require.NoError(t, err)

	t.Run("burst with low oscillator buys into the asks", func(t *testing.T) {
		in := momentumInput()
		in.Indicators.RSI = 30

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)

		require.NotNil(t, dec.Buy)
		assert.Equal(t, order.Buy, dec.Buy.Side)
		// 500 counter at close 10 wants 50 base; two ask levels cover the
		// 50.5 target, so the order prices at the second level.
		assert.Equal(t, 11.0, dec.Buy.Price)
		assert.Equal(t, 47.5, dec.Buy.Amount) // 50 * 0.95
		assert.Nil(t, dec.Sell)

		require.NotNil(t, dec.Record)
		assert.Equal(t, 11.0, dec.Record.EntryPrice)
	})

	t.Run("first entry price is kept on retrigger", func(t *testing.T) {
		in := momentumInput()
		in.Indicators.RSI = 30
		in.Record = &position.Record{EntryPrice: 9}
		in.Held = true

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)
		require.NotNil(t, dec.Record)
		assert.Equal(t, 9.0, dec.Record.EntryPrice)
	})

	t.Run("empty ask side skips the market", func(t *testing.T) {
		in := momentumInput()
		in.Indicators.RSI = 30
		in.Book.Asks = nil

		_, err := policy.Evaluate(in)
		assert.ErrorIs(t, err, market.ErrEmptyOrderBook)
	})
}

func TestMomentumSellSignal(t *testing.T) {
	policy, err := New("momentum", Params{})
	require.NoError(t, err)

	t.Run("burst with high oscillator sells into the bids", func(t *testing.T) {
		in := momentumInput()
		in.Indicators.RSI = 70
		in.Record = &position.Record{EntryPrice: 9}
		in.Held = true

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)

		// The resting buy is cleared regardless of whether a sell lands.
		assert.Nil(t, dec.Buy)
		require.NotNil(t, dec.Sell)
		assert.Equal(t, order.Sell, dec.Sell.Side)
		assert.Equal(t, 9.8, dec.Sell.Price)
		assert.Equal(t, 47.5, dec.Sell.Amount)
		assert.Equal(t, in.Record, dec.Record)
	})

	t.Run("no holding means cancel only", func(t *testing.T) {
		in := momentumInput()
		in.Indicators.RSI = 70
		in.BaseBalance = 0

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)
		assert.Nil(t, dec.Buy)
		assert.Nil(t, dec.Sell)
	})

	t.Run("empty bid side skips the market", func(t *testing.T) {
		in := momentumInput()
		in.Indicators.RSI = 70
		in.Book.Bids = nil

		_, err := policy.Evaluate(in)
		assert.ErrorIs(t, err, market.ErrEmptyOrderBook)
	})
}

func TestMomentumHold(t *testing.T) {
	policy, err := New("momentum", Params{})
	require.NoError(t, err)

	t.Run("no burst leaves resting orders alone", func(t *testing.T) {
		in := momentumInput()
		in.Candles = series(20, 10, 10, 9, 10, 10) // volume under threshold
		in.Record = &position.Record{EntryPrice: 9}
		in.Held = true
		in.OpenBuys = []order.Open{
			{ID: "12", Side: order.Buy, Price: 9.5, Amount: 10},
			{ID: "5", Side: order.Buy, Price: 9.4, Amount: 10},
		}
		in.OpenSells = []order.Open{
			{ID: "8", Side: order.Sell, Price: 10.5, Amount: 10},
		}

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)

		// Mirrored desires reconcile to no-ops on the lowest-id order.
		require.NotNil(t, dec.Buy)
		assert.Equal(t, 9.4, dec.Buy.Price)
		require.NotNil(t, dec.Sell)
		assert.Equal(t, 10.5, dec.Sell.Price)
		assert.Equal(t, in.Record, dec.Record)
	})

	t.Run("stretched oscillator alone is not a signal", func(t *testing.T) {
		in := momentumInput()
		in.Candles = series(20, 10, 10, 9, 10, 10)
		in.Indicators.RSI = 30

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)
		assert.Nil(t, dec.Buy)
		assert.Nil(t, dec.Sell)
	})

	t.Run("stale record is dropped when the holding is gone", func(t *testing.T) {
		in := momentumInput()
		in.Candles = series(20, 10, 10, 9, 10, 10)
		in.BaseBalance = 0
		in.Record = &position.Record{EntryPrice: 9}
		in.Held = false

		dec, err := policy.Evaluate(in)
		require.NoError(t, err)
		assert.Nil(t, dec.Record)
	})
}
