package calculator

import (
	"testing"

	"TrendSentinel/internal/model"
)

func TestSeriesRange(t *testing.T) {
	a := model.FromValues([]float64{5, 9, 7})
	b := ComputeSMA([]float64{4, 4, 12}, 2)

	low, high, ok := SeriesRange(a, b)
	if !ok {
		t.Fatal("expected a range")
	}
	if low != 4 || high != 9 {
		t.Errorf("expected [4, 9], got [%.1f, %.1f]", low, high)
	}
}

func TestSeriesRange_AllNil(t *testing.T) {
	if _, _, ok := SeriesRange(make(model.Series, 4), nil); ok {
		t.Error("expected no range for empty input")
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		value, low, high, want float64
	}{
		{5, 0, 10, 0.5},
		{0, 0, 10, 0},
		{12, 0, 10, 1},
		{-3, 0, 10, 0},
		{7, 7, 7, 0.5},
	}
	for _, tt := range tests {
		if got := RangePosition(tt.value, tt.low, tt.high); got != tt.want {
			t.Errorf("RangePosition(%v, %v, %v) = %v, want %v", tt.value, tt.low, tt.high, got, tt.want)
		}
	}
}
