package candle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandle(ts time.Time, close float64) Candle {
	return Candle{
		Timestamp: ts,
		Open:      close,
		High:      close + 1,
		Low:       close - 1,
		Close:     close,
		Volume:    10,
		Symbol:    "XLM-USDC",
	}
}

func TestValidate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		mutate  func(*Candle)
		wantErr bool
	}{
		{"valid", func(c *Candle) {}, false},
		{"zero timestamp", func(c *Candle) { c.Timestamp = time.Time{} }, true},
		{"non-positive price", func(c *Candle) { c.Close = 0 }, true},
		{"high below low", func(c *Candle) { c.High, c.Low = c.Low, c.High }, true},
		{"open outside range", func(c *Candle) { c.Open = c.High + 5 }, true},
		{"close outside range", func(c *Candle) { c.Close = c.Low - 5 }, true},
		{"negative volume", func(c *Candle) { c.Volume = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandle(now, 50)
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c0 := testCandle(base, 50)
	c1 := testCandle(base.Add(time.Hour), 51)
	c2 := testCandle(base.Add(2*time.Hour), 52)

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})

	t.Run("sorts ascending", func(t *testing.T) {
		out := Normalize([]Candle{c2, c0, c1})
		require.Len(t, out, 3)
		assert.Equal(t, []Candle{c0, c1, c2}, out)
	})

	t.Run("removes duplicate timestamps", func(t *testing.T) {
		out := Normalize([]Candle{c0, c1, c1, c2, c2, c2})
		require.Len(t, out, 3)
		assert.Equal(t, []Candle{c0, c1, c2}, out)
	})

	t.Run("duplicate order does not change the result", func(t *testing.T) {
		a := Normalize([]Candle{c2, c1, c0, c1, c2})
		b := Normalize([]Candle{c1, c2, c2, c1, c0})
		assert.Equal(t, a, b)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := []Candle{c2, c0, c1}
		Normalize(in)
		assert.Equal(t, []Candle{c2, c0, c1}, in)
	})
}

func TestSeriesExtraction(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := []Candle{testCandle(base, 50), testCandle(base.Add(time.Hour), 52)}

	assert.Equal(t, []float64{50, 52}, Closes(candles))
	assert.Equal(t, []float64{10, 10}, Volumes(candles))
}
