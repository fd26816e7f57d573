package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketSymbol(t *testing.T) {
	m := Market{
		Base:    Asset{Code: "XLM"},
		Counter: Asset{Code: "USDC", Issuer: "GA5Z"},
	}
	assert.Equal(t, "XLM-USDC", m.Symbol())
	assert.True(t, m.Base.Native())
	assert.False(t, m.Counter.Native())
}

func TestBestLevels(t *testing.T) {
	t.Run("empty sides", func(t *testing.T) {
		ob := OrderBook{}
		_, err := ob.BestAsk()
		assert.ErrorIs(t, err, ErrEmptyOrderBook)
		_, err = ob.BestBid()
		assert.ErrorIs(t, err, ErrEmptyOrderBook)
	})

	t.Run("populated", func(t *testing.T) {
		ob := OrderBook{
			Asks: []Level{{Price: 10.1, Amount: 5}, {Price: 10.2, Amount: 7}},
			Bids: []Level{{Price: 9.9, Amount: 4}, {Price: 9.8, Amount: 6}},
		}
		ask, err := ob.BestAsk()
		require.NoError(t, err)
		assert.Equal(t, Level{Price: 10.1, Amount: 5}, ask)

		bid, err := ob.BestBid()
		require.NoError(t, err)
		assert.Equal(t, Level{Price: 9.9, Amount: 4}, bid)
	})
}

func TestWalkDepth(t *testing.T) {
	levels := []Level{
		{Price: 10, Amount: 3},
		{Price: 11, Amount: 3},
		{Price: 12, Amount: 3},
	}

	tests := []struct {
		name      string
		target    float64
		maxLevels int
		expected  Depth
	}{
		{"first level covers target", 2, 10, Depth{Price: 10, Amount: 3}},
		{"walks until covered", 5, 10, Depth{Price: 11, Amount: 6}},
		{"thin book stops short", 100, 10, Depth{Price: 12, Amount: 9}},
		{"bounded by max levels", 100, 2, Depth{Price: 11, Amount: 6}},
		{"zero target consumes nothing", 0, 10, Depth{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WalkDepth(levels, tt.target, tt.maxLevels))
		})
	}

	t.Run("empty levels", func(t *testing.T) {
		assert.Equal(t, Depth{}, WalkDepth(nil, 10, 10))
	})
}

func TestBalancesBaseFor(t *testing.T) {
	b := Balances{Base: map[string]float64{"XLM": 120}, Counter: 500}
	m := Market{Base: Asset{Code: "XLM"}, Counter: Asset{Code: "USDC"}}

	v, ok := b.BaseFor(m)
	assert.True(t, ok)
	assert.Equal(t, 120.0, v)

	missing := Market{Base: Asset{Code: "AQUA"}, Counter: Asset{Code: "USDC"}}
	v, ok = b.BaseFor(missing)
	assert.False(t, ok)
	assert.Equal(t, 0.0, v)
}
