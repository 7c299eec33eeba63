package recorder

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TrendSentinel/internal/model"
)

// SQLiteRecorder persists delivered reports to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite journal opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_reports (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			run_id           TEXT NOT NULL,
			trigger_type     TEXT,
			symbol           TEXT NOT NULL,
			signal           TEXT NOT NULL,
			crossover_kind   TEXT,
			crossover_index  INTEGER,
			crossover_date   TEXT,
			crossover_price  REAL,
			latest_price     REAL,
			distance_pct     REAL,
			distance_defined INTEGER,
			short_period     INTEGER,
			long_period      INTEGER,
			sentiment        TEXT,
			earnings         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_symbol_ts ON signal_reports(symbol, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_run ON signal_reports(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReport(e *ReportEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := e.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO signal_reports
		(timestamp, run_id, trigger_type, symbol, signal, crossover_kind,
		 crossover_index, crossover_date, crossover_price, latest_price,
		 distance_pct, distance_defined, short_period, long_period,
		 sentiment, earnings)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), e.RunID, e.Trigger, strings.ToUpper(e.Symbol), string(e.Signal), string(e.CrossoverKind),
		e.CrossoverIndex, e.CrossoverDate, e.CrossoverPrice, e.LatestPrice,
		e.DistancePercent, e.DistanceDefined, e.ShortPeriod, e.LongPeriod,
		e.Sentiment, e.Earnings,
	)
	return err
}

// Recent returns up to limit entries for symbol, newest first.
func (r *SQLiteRecorder) Recent(symbol string, limit int) ([]ReportEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT timestamp, run_id, trigger_type, symbol, signal, crossover_kind,
		crossover_index, crossover_date, crossover_price, latest_price,
		distance_pct, distance_defined, short_period, long_period, sentiment, earnings
		FROM signal_reports WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []ReportEntry
	for rows.Next() {
		var (
			e            ReportEntry
			ts           int64
			signal, kind string
		)
		if err := rows.Scan(&ts, &e.RunID, &e.Trigger, &e.Symbol, &signal, &kind,
			&e.CrossoverIndex, &e.CrossoverDate, &e.CrossoverPrice, &e.LatestPrice,
			&e.DistancePercent, &e.DistanceDefined, &e.ShortPeriod, &e.LongPeriod,
			&e.Sentiment, &e.Earnings); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		e.RecordedAt = time.UnixMilli(ts)
		e.Signal = model.Signal(signal)
		e.CrossoverKind = model.Signal(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite journal")
	return r.db.Close()
}
