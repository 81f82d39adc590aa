package stats

import (
	"math"
)

// SafePercent returns num/den*100, or 0 when den is zero or the result is not finite.
func SafePercent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	pct := num / den * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
