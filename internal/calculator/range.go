package calculator

import (
	"math"

	"TrendSentinel/internal/model"
)

// SeriesRange scans every defined value across all series and returns the
// lowest and highest. ok is false when no series holds a value.
func SeriesRange(series ...model.Series) (low, high float64, ok bool) {
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values() {
			low = math.Min(low, v)
			high = math.Max(high, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return low, high, true
}

// RangePosition returns where value sits between low and high (0.0~1.0).
// A flat range reports the midpoint.
func RangePosition(value, low, high float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (value - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
