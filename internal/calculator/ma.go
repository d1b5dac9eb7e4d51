package calculator

import "math"

// Moving average windows drawn on the price chart.
const (
	MAShortWindow = 50
	MALongWindow  = 200
)

// MovingAverage returns the rolling simple moving average of closes, aligned with closes.
// Positions before the window is full hold NaN.
func MovingAverage(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// LastDefined returns the most recent non-NaN value of a series.
func LastDefined(series []float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) {
			return series[i], true
		}
	}
	return 0, false
}
