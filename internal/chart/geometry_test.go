package chart

import (
	"math"
	"strings"
	"testing"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"
)

var testViewport = model.Viewport{Width: 800, Height: 400, Padding: 40}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuild_FlatSeries(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 42
	}
	g := Build(prices, calculator.ComputeSMA(prices, 5), calculator.ComputeSMA(prices, 10), -1, model.SignalNeutral, testViewport)

	want := testViewport.Height - testViewport.Padding
	for _, line := range g.Lines {
		for _, seg := range line.Segments {
			for _, p := range seg {
				if p.Y != want {
					t.Fatalf("%s: expected y=%.1f, got %.4f", line.Name, want, p.Y)
				}
				if math.IsNaN(p.X) || math.IsNaN(p.Y) {
					t.Fatalf("%s: NaN coordinate", line.Name)
				}
			}
		}
	}
	if g.Marker != nil {
		t.Error("expected no marker without a crossover")
	}
}

func TestBuild_XScale(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	g := Build(prices, nil, nil, -1, model.SignalNeutral, testViewport)

	seg := g.Lines[0].Segments[0]
	if !approx(seg[0].X, 40) || !approx(seg[4].X, 760) || !approx(seg[2].X, 400) {
		t.Errorf("unexpected x positions: %.2f %.2f %.2f", seg[0].X, seg[2].X, seg[4].X)
	}
	// Highest price at the top padding, lowest at the bottom padding.
	if !approx(seg[4].Y, 40) || !approx(seg[0].Y, 360) {
		t.Errorf("unexpected y extremes: %.2f %.2f", seg[0].Y, seg[4].Y)
	}
}

func TestBuild_SinglePoint(t *testing.T) {
	g := Build([]float64{7}, nil, nil, 0, model.SignalUp, testViewport)
	p := g.Lines[0].Segments[0][0]
	if p.X != testViewport.Padding {
		t.Errorf("expected x=padding, got %.2f", p.X)
	}
	if p.Y != testViewport.Height-testViewport.Padding {
		t.Errorf("expected y at the bottom padding, got %.2f", p.Y)
	}
	if g.Marker == nil || g.Marker.Point != p {
		t.Error("expected marker on the single point")
	}
}

func TestBuild_NullGapsSplitSegments(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	sma := model.Series{nil, nil, v(1), v(2), nil, v(3), nil, nil, v(4), v(5), v(6)}
	prices := make([]float64, len(sma))
	for i := range prices {
		prices[i] = float64(i)
	}
	g := Build(prices, sma, make(model.Series, len(prices)), -1, model.SignalNeutral, testViewport)

	short := g.Lines[1]
	if len(short.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(short.Segments))
	}
	for i, n := range []int{2, 1, 3} {
		if len(short.Segments[i]) != n {
			t.Errorf("segment %d: expected %d points, got %d", i, n, len(short.Segments[i]))
		}
	}
	if long := g.Lines[2]; len(long.Segments) != 0 {
		t.Errorf("all-nil series must produce no segments, got %d", len(long.Segments))
	}
}

func TestFromResult_Marker(t *testing.T) {
	prices := make([]float64, 0, 20)
	for i := 0; i < 10; i++ {
		prices = append(prices, 10)
	}
	for i := 0; i < 10; i++ {
		prices = append(prices, 12)
	}
	res := strategy.Analyze(prices, 5, 10, 12)
	g := FromResult(res, testViewport)

	if g.Marker == nil {
		t.Fatal("expected a crossover marker")
	}
	if g.Marker.Index != 10 || g.Marker.Kind != model.SignalUp {
		t.Errorf("unexpected marker: %+v", g.Marker)
	}
	if !approx(g.Marker.Point.X, 10.0/19.0*720+40) {
		t.Errorf("unexpected marker x %.4f", g.Marker.Point.X)
	}
	if !approx(g.Marker.Point.Y, 40) {
		t.Errorf("expected marker at the top of the range, got %.4f", g.Marker.Point.Y)
	}
	if g.Min != 10 || g.Max != 12 {
		t.Errorf("expected range [10, 12], got [%.2f, %.2f]", g.Min, g.Max)
	}
}

func TestSVGPath(t *testing.T) {
	line := model.Polyline{Segments: [][]model.Point{
		{{X: 0, Y: 1}, {X: 2, Y: 3}},
		{{X: 4, Y: 5}},
	}}
	got := SVGPath(line)
	want := "M 0.00 1.00 L 2.00 3.00 M 4.00 5.00"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if SVGPath(model.Polyline{}) != "" {
		t.Error("expected empty path for empty line")
	}
	if strings.Contains(got, "NaN") {
		t.Error("path must not contain NaN")
	}
}
