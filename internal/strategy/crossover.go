package strategy

import (
	"errors"
	"fmt"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// ErrInvalidPeriods reports a period pair that violates
// 1 <= short < long, long >= 2.
var ErrInvalidPeriods = errors.New("invalid SMA periods")

// ValidatePeriods checks the caller-side precondition of Analyze.
func ValidatePeriods(shortPeriod, longPeriod int) error {
	switch {
	case shortPeriod < 1:
		return fmt.Errorf("%w: short period %d must be >= 1", ErrInvalidPeriods, shortPeriod)
	case longPeriod < 2:
		return fmt.Errorf("%w: long period %d must be >= 2", ErrInvalidPeriods, longPeriod)
	case shortPeriod >= longPeriod:
		return fmt.Errorf("%w: short period %d must be below long period %d", ErrInvalidPeriods, shortPeriod, longPeriod)
	}
	return nil
}

// FindLatestCrossover scans the aligned SMA pair from index from onward and
// returns the highest-index crossing. Comparisons touching an undefined value
// are skipped.
func FindLatestCrossover(smaShort, smaLong model.Series, from int) model.CrossoverEvent {
	event := model.CrossoverEvent{Kind: model.SignalNeutral, Index: -1}
	if from < 1 {
		from = 1
	}
	n := len(smaShort)
	if len(smaLong) < n {
		n = len(smaLong)
	}
	for i := from; i < n; i++ {
		prevShort, ok1 := smaShort.At(i - 1)
		prevLong, ok2 := smaLong.At(i - 1)
		curShort, ok3 := smaShort.At(i)
		curLong, ok4 := smaLong.At(i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		switch {
		case prevShort <= prevLong && curShort > curLong:
			event = model.CrossoverEvent{Kind: model.SignalUp, Index: i}
		case prevShort >= prevLong && curShort < curLong:
			event = model.CrossoverEvent{Kind: model.SignalDown, Index: i}
		}
	}
	return event
}

// Analyze computes both SMAs over prices (oldest to newest), locates the latest
// crossover and classifies the signal against latestPrice. It never fails:
// short histories and undefined windows fall through to a neutral result.
func Analyze(prices []float64, shortPeriod, longPeriod int, latestPrice float64) *model.SignalResult {
	series := make([]float64, len(prices))
	copy(series, prices)

	res := &model.SignalResult{
		Signal:          model.SignalNeutral,
		LatestPrice:     latestPrice,
		DistanceDefined: true,
		CrossoverIndex:  -1,
		CrossoverKind:   model.SignalNeutral,
		ShortPeriod:     shortPeriod,
		LongPeriod:      longPeriod,
		Prices:          series,
		SMAShort:        calculator.ComputeSMA(series, shortPeriod),
		SMALong:         calculator.ComputeSMA(series, longPeriod),
	}

	event := FindLatestCrossover(res.SMAShort, res.SMALong, longPeriod)
	if !event.Found() {
		return res
	}

	res.CrossoverIndex = event.Index
	res.CrossoverKind = event.Kind
	res.CrossoverPrice = series[event.Index]

	if res.CrossoverPrice == 0 {
		// A zero close cannot anchor a percentage move.
		res.DistanceDefined = false
		return res
	}

	res.Signal = decay(event.Kind, latestPrice, res.CrossoverPrice)
	res.DistancePercent = (latestPrice - res.CrossoverPrice) / res.CrossoverPrice * 100
	return res
}

// decay reverts a directional signal once price falls back through the
// crossover level.
func decay(kind model.Signal, latestPrice, crossoverPrice float64) model.Signal {
	switch {
	case kind == model.SignalUp && latestPrice < crossoverPrice:
		return model.SignalNeutral
	case kind == model.SignalDown && latestPrice > crossoverPrice:
		return model.SignalNeutral
	}
	return kind
}
