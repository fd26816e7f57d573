// Package indicator
package indicator

import (
	"errors"
	"math"

	"github.com/lumenmm/offerbot/internal/candle"
)

// ErrInsufficientData is returned when a window has fewer candles than the
// computation requires. Callers skip the market for the pass instead of
// failing the run.
var ErrInsufficientData = errors.New("insufficient candle data")

// Set holds every derived value for one market, recomputed fully each tick
// from the most recent window of candles. No state survives between ticks.
type Set struct {
	CloseMA         float64
	CloseStdev      float64
	VolumeMA        float64
	VolumeStdev     float64
	VolumeThreshold float64
	RSI             float64
}

// SMA returns the arithmetic mean of values.
func SMA(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation of values. A zero-variance
// series yields 0, not an error. Fewer than two values is undefined and
// returns 0; callers enforce the window minimum themselves.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := SMA(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// Compute derives the indicator set from the most recent window candles.
// Candles must be normalized (ascending, deduplicated). k scales the volume
// threshold: mean + k*stdev.
func Compute(candles []candle.Candle, window int, k float64) (Set, error) {
	if window < 2 || len(candles) < window {
		return Set{}, ErrInsufficientData
	}

	recent := candles[len(candles)-window:]
	closes := candle.Closes(recent)
	volumes := candle.Volumes(recent)

	set := Set{
		CloseMA:     SMA(closes),
		CloseStdev:  StdDev(closes),
		VolumeMA:    SMA(volumes),
		VolumeStdev: StdDev(volumes),
	}
	set.VolumeThreshold = set.VolumeMA + k*set.VolumeStdev
	set.RSI = WilderRSI(closes, RSICenterOfMass)

	return set, nil
}
