package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenmm/offerbot/internal/market"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 9.9, Round(9.9000000049))
	assert.Equal(t, 0.0000001, Round(0.00000005))
	assert.Equal(t, -0.0000001, Round(-0.00000005))
	assert.Equal(t, 1.2345679, Round(1.23456789))
}

func TestEntrySize(t *testing.T) {
	tests := []struct {
		name     string
		counter  float64
		close    float64
		cap      float64
		expected float64
	}{
		{"balance bound with safety factor", 500, 50, 10000, 9.9},
		{"notional cap binds", 1000000, 50, 10000, 200},
		{"zero balance", 0, 50, 10000, 0},
		{"zero close yields nothing", 500, 0, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EntrySize(tt.counter, tt.close, tt.cap))
		})
	}

	t.Run("never exceeds the balance-derived bound", func(t *testing.T) {
		for _, counter := range []float64{0, 1, 99.99, 500, 123456} {
			size := EntrySize(counter, 50, 10000)
			assert.LessOrEqual(t, size, counter/50)
			assert.GreaterOrEqual(t, size, 0.0)
		}
	})
}

func TestEntryPrice(t *testing.T) {
	// Lesser of close and best bid, discounted ~0.5%.
	assert.Equal(t, Round(49.5*0.995), EntryPrice(50, 49.5))
	assert.Equal(t, Round(50*0.995), EntryPrice(50, 52))
}

func TestTakeProfitAndStop(t *testing.T) {
	t.Run("deviation target wins", func(t *testing.T) {
		// max(10*1.0075, 10+0.5) = 10.5
		assert.Equal(t, 10.5, TakeProfit(10, 0.5))
	})

	t.Run("ratio floor wins", func(t *testing.T) {
		assert.Equal(t, 10.075, TakeProfit(10, 0.01))
	})

	t.Run("stop condition", func(t *testing.T) {
		tp := TakeProfit(10, 0.5)
		// threshold = 10 - 0.67*(10.5-10) = 9.665
		assert.True(t, StopTriggered(9.5, 10, tp))
		assert.False(t, StopTriggered(9.7, 10, tp))
		assert.False(t, StopTriggered(9.665, 10, tp))
	})
}

func TestExitSize(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		expected float64
	}{
		{"normal exit", 100, 97.02},
		{"reserve floors to zero", 2, 0},
		{"below reserve floors to zero", 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitSize(tt.balance, DefaultExitReserve, DefaultSafetyFactor))
		})
	}
}

func TestDepthOrder(t *testing.T) {
	levels := []market.Level{
		{Price: 10, Amount: 30},
		{Price: 11, Amount: 30},
		{Price: 12, Amount: 30},
	}

	t.Run("price is the deepest consumed level", func(t *testing.T) {
		// target = 50*1.01 = 50.5: consumes two levels.
		price, amount := DepthOrder(levels, 50)
		assert.Equal(t, 11.0, price)
		// min(50*0.95, 60*0.95) = 47.5
		assert.Equal(t, 47.5, amount)
	})

	t.Run("thin depth caps the amount", func(t *testing.T) {
		price, amount := DepthOrder(levels[:1], 100)
		assert.Equal(t, 10.0, price)
		// min(100*0.95, 30*0.95) = 28.5
		assert.Equal(t, 28.5, amount)
	})

	t.Run("empty book yields nothing", func(t *testing.T) {
		price, amount := DepthOrder(nil, 50)
		assert.Equal(t, 0.0, price)
		assert.Equal(t, 0.0, amount)
	})
}
