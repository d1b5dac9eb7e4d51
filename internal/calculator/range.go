package calculator

import "math"

// PriceRange scans every series and returns the lowest and highest finite value.
// NaN and infinite entries are skipped. ok is false when nothing finite was found.
func PriceRange(series ...[]float64) (low, high float64, ok bool) {
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return low, high, true
}

// HasDefined reports whether a series has at least one non-NaN value.
func HasDefined(series []float64) bool {
	for _, v := range series {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Position returns where current sits within [low, high], as 0.0~1.0.
func Position(current, low, high float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
