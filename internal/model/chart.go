package model

// Viewport is the target drawing area in output units.
type Viewport struct {
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Padding float64 `json:"padding" yaml:"padding"`
}

// Point is a drawable coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polyline is one plotted series broken into continuous segments.
type Polyline struct {
	Name     string    `json:"name"`
	Segments [][]Point `json:"segments"`
}

// Marker pins the crossover bar on the chart.
type Marker struct {
	Index int    `json:"index"`
	Kind  Signal `json:"kind"`
	Point Point  `json:"point"`
}

// ChartGeometry is the layout data for one SignalResult.
type ChartGeometry struct {
	Viewport Viewport   `json:"viewport"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Lines    []Polyline `json:"lines"`
	Marker   *Marker    `json:"marker,omitempty"`
}
