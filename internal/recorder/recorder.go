package recorder

import (
	"time"

	"TrendSentinel/internal/model"
)

// ReportEntry is one delivered analysis as kept in the journal.
type ReportEntry struct {
	RunID           string
	Trigger         string // "CRON", "COMMAND", "STARTUP"
	RecordedAt      time.Time
	Symbol          string
	Signal          model.Signal
	CrossoverKind   model.Signal
	CrossoverIndex  int
	CrossoverDate   string
	CrossoverPrice  float64
	LatestPrice     float64
	DistancePercent float64
	DistanceDefined bool
	ShortPeriod     int
	LongPeriod      int
	Sentiment       string
	Earnings        string
}

// NewReportEntry flattens a SignalResult into a journal row.
func NewReportEntry(runID, trigger string, res *model.SignalResult) *ReportEntry {
	return &ReportEntry{
		RunID:           runID,
		Trigger:         trigger,
		RecordedAt:      time.Now(),
		Symbol:          res.Company.Symbol,
		Signal:          res.Signal,
		CrossoverKind:   res.CrossoverKind,
		CrossoverIndex:  res.CrossoverIndex,
		CrossoverDate:   res.CrossoverDate(),
		CrossoverPrice:  res.CrossoverPrice,
		LatestPrice:     res.LatestPrice,
		DistancePercent: res.DistancePercent,
		DistanceDefined: res.DistanceDefined,
		ShortPeriod:     res.ShortPeriod,
		LongPeriod:      res.LongPeriod,
		Sentiment:       res.Sentiment,
		Earnings:        res.Earnings,
	}
}

// Recorder keeps an append-only audit trail of delivered reports. Analysis
// never reads it back.
type Recorder interface {
	RecordReport(entry *ReportEntry) error
	Recent(symbol string, limit int) ([]ReportEntry, error)
	Close() error
}
