package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenmm/offerbot/internal/candle"
	"github.com/lumenmm/offerbot/internal/market"
)

var testMarket = market.Market{
	Base:    market.Asset{Code: "XLM"},
	Counter: market.Asset{Code: "USDC", Issuer: "GA5Z"},
}

// series builds a flat candle window ending in a candle with the given open,
// low, close, and volume.
func series(n int, price, lastOpen, lastLow, lastClose, lastVolume float64) []candle.Candle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]candle.Candle, n)
	for i := range out {
		out[i] = candle.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    10,
			Symbol:    testMarket.Symbol(),
		}
	}
	last := &out[n-1]
	last.Open = lastOpen
	last.Low = lastLow
	last.Close = lastClose
	last.High = lastClose + 1
	if lastOpen > last.High {
		last.High = lastOpen + 1
	}
	last.Volume = lastVolume
	return out
}

func TestNewSelectsPolicy(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"anomaly", "anomaly", false},
		{"momentum", "momentum", false},
		{"maker", "maker", false},
		{"bollinger", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.name, Params{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Name())
		})
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{}.Normalize()
	assert.Equal(t, 20, p.Window)
	assert.Equal(t, 2.0, p.DeviationK)
	assert.Equal(t, 10000.0, p.NotionalCap)
	assert.Equal(t, 2.0, p.ExitReserve)
	assert.Equal(t, 1.0, p.DustThreshold)
	assert.Equal(t, 40.0, p.RSIBuyBelow)
	assert.Equal(t, 60.0, p.RSISellAbove)

	custom := Params{Window: 10, NotionalCap: 500}.Normalize()
	assert.Equal(t, 10, custom.Window)
	assert.Equal(t, 500.0, custom.NotionalCap)
}
