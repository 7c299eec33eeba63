package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"
)

// MockSource serves fixed payloads for development and testing.
type MockSource struct {
	mu       sync.Mutex
	Payloads map[string]*model.Payload
	Err      error
	Calls    int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context, symbol string) (*model.Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Payloads[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("mock: no payload for %s", symbol)
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Collector fetches a payload and runs the crossover analysis on it.
type Collector struct {
	Source      Source
	ShortPeriod int
	LongPeriod  int
}

// NewCollector creates a new Collector.
func NewCollector(source Source, shortPeriod, longPeriod int) *Collector {
	return &Collector{Source: source, ShortPeriod: shortPeriod, LongPeriod: longPeriod}
}

// Collect fetches the payload for symbol and evaluates it.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.SignalResult, error) {
	p, err := c.Source.Fetch(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Source.Name(), err)
	}
	res, err := strategy.Evaluate(p, c.ShortPeriod, c.LongPeriod)
	if err != nil {
		return nil, err
	}
	slog.Debug("analysis complete",
		"symbol", res.Company.Symbol,
		"signal", res.Signal,
		"crossover_index", res.CrossoverIndex,
		"distance_pct", res.DistancePercent,
	)
	return res, nil
}
