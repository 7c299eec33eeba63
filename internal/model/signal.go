package model

// Signal is the current trend classification.
type Signal string

const (
	SignalUp      Signal = "up"
	SignalDown    Signal = "down"
	SignalNeutral Signal = "neutral"
)

// CrossoverEvent locates the latest crossing of the short SMA through the long
// SMA. Index is -1 when no crossing was found.
type CrossoverEvent struct {
	Kind  Signal `json:"kind"`
	Index int    `json:"index"`
}

// Found reports whether the event refers to a real crossing.
func (e CrossoverEvent) Found() bool {
	return e.Index >= 0 && e.Kind != SignalNeutral
}

// SignalResult is the read-only outcome of one analysis. Price, date and SMA
// series are ordered oldest to newest and share indices. DistanceDefined is
// false when the crossover price is zero and the distance cannot be expressed
// as a percentage.
type SignalResult struct {
	Signal          Signal  `json:"signal"`
	CrossoverPrice  float64 `json:"crossover_price"`
	LatestPrice     float64 `json:"latest_price"`
	DistancePercent float64 `json:"distance_percent"`
	DistanceDefined bool    `json:"distance_defined"`
	CrossoverIndex  int     `json:"crossover_index"`
	CrossoverKind   Signal  `json:"crossover_kind"`
	ShortPeriod     int     `json:"short_period"`
	LongPeriod      int     `json:"long_period"`

	Prices   []float64 `json:"prices"`
	Dates    []string  `json:"dates,omitempty"`
	SMAShort Series    `json:"sma_short"`
	SMALong  Series    `json:"sma_long"`

	Company   Company    `json:"company"`
	News      []NewsItem `json:"news,omitempty"`
	Ratings   []string   `json:"ratings,omitempty"`
	Sentiment string     `json:"sentiment,omitempty"`
	Earnings  string     `json:"earnings,omitempty"`
}

// HasCrossover reports whether a crossing was located, regardless of decay.
func (r *SignalResult) HasCrossover() bool {
	return r.CrossoverIndex >= 0
}

// CrossoverDate returns the date of the crossing bar, if known.
func (r *SignalResult) CrossoverDate() string {
	if r.CrossoverIndex < 0 || r.CrossoverIndex >= len(r.Dates) {
		return ""
	}
	return r.Dates[r.CrossoverIndex]
}
