package calculator

import (
	"fmt"

	"TrendSentinel/internal/model"
)

// ComputeSMA returns the simple moving average of series over period, aligned
// index for index with the input. Positions with fewer than period trailing
// samples are nil. A non-positive period yields an all-nil series.
//
// Every defined entry is the direct mean of its own window. A sliding sum
// would leave rounding residue behind, and two averages that are equal on a
// flat stretch must compare equal.
func ComputeSMA(series []float64, period int) model.Series {
	out := make(model.Series, len(series))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(series); i++ {
		mean := windowMean(series, i-period+1, i)
		out[i] = &mean
	}
	return out
}

// CalculateSMA returns the average of the newest period prices, which sit at
// the end of an oldest-to-newest slice.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma period %d must be positive", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma%d needs %d closes, got %d", period, period, len(prices))
	}
	return windowMean(prices, len(prices)-period, len(prices)-1), nil
}

func windowMean(series []float64, from, to int) float64 {
	sum := 0.0
	for _, v := range series[from : to+1] {
		sum += v
	}
	return sum / float64(to-from+1)
}

// Chronological returns a copy of newest-first points in oldest-to-newest order.
func Chronological(points []model.PricePoint) []model.PricePoint {
	out := make([]model.PricePoint, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// Closes extracts the close of every point, preserving order.
func Closes(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}

// Dates extracts the date of every point, preserving order.
func Dates(points []model.PricePoint) []string {
	dates := make([]string, len(points))
	for i, p := range points {
		dates[i] = p.Date
	}
	return dates
}
