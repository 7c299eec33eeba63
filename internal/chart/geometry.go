// Package chart turns price and SMA series into drawable layout data.
package chart

import (
	"strconv"
	"strings"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// Scale maps series indices and values into a viewport.
type Scale struct {
	vp  model.Viewport
	n   int
	min float64
	rng float64
}

// NewScale builds a scale for n samples spanning [low, high].
func NewScale(vp model.Viewport, n int, low, high float64) Scale {
	rng := high - low
	if rng == 0 {
		rng = 1
	}
	return Scale{vp: vp, n: n, min: low, rng: rng}
}

// X maps a sample index to a horizontal coordinate.
func (s Scale) X(i int) float64 {
	if s.n <= 1 {
		return s.vp.Padding
	}
	return float64(i)/float64(s.n-1)*(s.vp.Width-2*s.vp.Padding) + s.vp.Padding
}

// Y maps a price to a vertical coordinate, with larger prices drawn higher.
func (s Scale) Y(p float64) float64 {
	return s.vp.Height - s.vp.Padding - (p-s.min)/s.rng*(s.vp.Height-2*s.vp.Padding)
}

// Build lays out the price line, both SMA lines and the crossover marker.
// The marker is omitted when crossoverIndex is negative or out of range.
func Build(prices []float64, smaShort, smaLong model.Series, crossoverIndex int, kind model.Signal, vp model.Viewport) *model.ChartGeometry {
	priceSeries := model.FromValues(prices)
	low, high, ok := calculator.SeriesRange(priceSeries, smaShort, smaLong)
	if !ok {
		low, high = 0, 0
	}
	sc := NewScale(vp, len(prices), low, high)

	g := &model.ChartGeometry{
		Viewport: vp,
		Min:      low,
		Max:      high,
		Lines: []model.Polyline{
			polyline("price", priceSeries, sc),
			polyline("sma_short", smaShort, sc),
			polyline("sma_long", smaLong, sc),
		},
	}

	if crossoverIndex >= 0 && crossoverIndex < len(prices) {
		g.Marker = &model.Marker{
			Index: crossoverIndex,
			Kind:  kind,
			Point: model.Point{X: sc.X(crossoverIndex), Y: sc.Y(prices[crossoverIndex])},
		}
	}
	return g
}

// FromResult lays out a finished analysis.
func FromResult(res *model.SignalResult, vp model.Viewport) *model.ChartGeometry {
	return Build(res.Prices, res.SMAShort, res.SMALong, res.CrossoverIndex, res.CrossoverKind, vp)
}

// polyline splits s at nil entries; every maximal run of defined values
// becomes one segment.
func polyline(name string, s model.Series, sc Scale) model.Polyline {
	line := model.Polyline{Name: name, Segments: [][]model.Point{}}
	var seg []model.Point
	for i, v := range s {
		if v == nil {
			if len(seg) > 0 {
				line.Segments = append(line.Segments, seg)
				seg = nil
			}
			continue
		}
		seg = append(seg, model.Point{X: sc.X(i), Y: sc.Y(*v)})
	}
	if len(seg) > 0 {
		line.Segments = append(line.Segments, seg)
	}
	return line
}

// SVGPath renders the segments of line as SVG path data, one "M ... L ..."
// run per segment.
func SVGPath(line model.Polyline) string {
	var b strings.Builder
	for _, seg := range line.Segments {
		for i, p := range seg {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			if i == 0 {
				b.WriteString("M ")
			} else {
				b.WriteString("L ")
			}
			b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
		}
	}
	return b.String()
}
