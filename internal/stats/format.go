package stats

import (
	"fmt"
	"math"
	"strconv"
)

const (
	minuteThreshold = 120.0  // seconds; below this a duration is shown in seconds
	hourThreshold   = 7200.0 // seconds; above this a duration is shown in hours
)

// FormatDuration renders a duration in seconds for display.
// nil renders "0s"; values that are not numeric are passed through unchanged.
// Boundaries belong to the lower unit: 120 renders "2.00 min", 7200 renders "120.00 min".
func FormatDuration(v any) string {
	if v == nil {
		return "0s"
	}
	if p, ok := v.(*float64); ok && p == nil {
		return "0s"
	}
	secs, ok := toSeconds(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return FormatSeconds(secs)
}

// FormatSeconds is FormatDuration for values already known to be numeric.
func FormatSeconds(secs float64) string {
	if math.IsNaN(secs) {
		return "0s"
	}
	switch {
	case secs < minuteThreshold:
		return fmt.Sprintf("%.0f seg", secs)
	case secs <= hourThreshold:
		return fmt.Sprintf("%.2f min", secs/60)
	default:
		return fmt.Sprintf("%.2f hs", secs/3600)
	}
}

func toSeconds(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case fmt.Stringer:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
