package indicator

// RSICenterOfMass is the exponential-smoothing center of mass for the
// relative-strength oscillator. A center of mass of 6 corresponds to a
// Wilder smoothing period of 7.
const RSICenterOfMass = 6

// WilderRSI computes a Wilder-smoothed relative-strength value in [0,100]
// from closing prices. Upward and downward deltas are smoothed with period
// com+1, seeded by equal weighting of the first window of deltas. Zero
// downward movement makes the relative strength unbounded; the oscillator is
// defined as 100 in that case, never NaN.
func WilderRSI(prices []float64, com int) float64 {
	period := com + 1
	if len(prices) < 2 || period < 1 {
		return 0
	}

	ups := make([]float64, 0, len(prices)-1)
	downs := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			ups = append(ups, delta)
			downs = append(downs, 0)
		} else {
			ups = append(ups, 0)
			downs = append(downs, -delta)
		}
	}

	seed := period
	if len(ups) < seed {
		seed = len(ups)
	}

	var avgGain, avgLoss float64
	for i := 0; i < seed; i++ {
		avgGain += ups[i]
		avgLoss += downs[i]
	}
	avgGain /= float64(seed)
	avgLoss /= float64(seed)

	for i := seed; i < len(ups); i++ {
		avgGain = (avgGain*float64(period-1) + ups[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + downs[i]) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
