package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/recorder"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func payload(symbol string, closes []float64, latest float64) *model.Payload {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[len(closes)-1-i] = model.PricePoint{Date: start.AddDate(0, 0, i).Format("2006-01-02"), Close: c}
	}
	return &model.Payload{Company: model.Company{Symbol: symbol}, LatestPrice: &latest, Prices: points}
}

func stepCloses(from, to float64) []float64 {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = from
		if i >= 10 {
			closes[i] = to
		}
	}
	return closes
}

func newTestScheduler(t *testing.T, watchlist []string) (*Scheduler, *fakeNotifier, *recorder.SQLiteRecorder, *metrics.Metrics) {
	t.Helper()
	src := &collector.MockSource{Payloads: map[string]*model.Payload{
		"UP":   payload("UP", stepCloses(10, 12), 12.5),
		"DOWN": payload("DOWN", stepCloses(12, 10), 9.5),
		"FLAT": payload("FLAT", stepCloses(10, 10), 10),
	}}
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	n := &fakeNotifier{}
	m := metrics.NewMetrics()
	s := NewScheduler(context.Background(), collector.NewCollector(src, 5, 10), n, rec, m, watchlist, 2)
	return s, n, rec, m
}

func TestRunWatchlist_OrderAndFailures(t *testing.T) {
	s, _, rec, m := newTestScheduler(t, []string{"UP", "MISSING", "DOWN", "FLAT"})

	results, failures := s.RunWatchlist(context.Background(), "run-1", TriggerCron)
	if len(results) != 3 || len(failures) != 1 {
		t.Fatalf("expected 3 results and 1 failure, got %d and %d", len(results), len(failures))
	}
	want := []model.Signal{model.SignalUp, model.SignalDown, model.SignalNeutral}
	for i, res := range results {
		if res.Signal != want[i] {
			t.Errorf("result %d (%s): expected %s, got %s", i, res.Company.Symbol, want[i], res.Signal)
		}
	}
	if failures[0].Symbol != "MISSING" {
		t.Errorf("unexpected failure %+v", failures[0])
	}

	entries, err := rec.Recent("DOWN", 5)
	if err != nil || len(entries) != 1 || entries[0].RunID != "run-1" {
		t.Errorf("expected one journal entry for DOWN, got %v (%v)", entries, err)
	}
	if got := testutil.ToFloat64(m.AnalysisFailures.WithLabelValues("mock")); got != 1 {
		t.Errorf("expected 1 failure metric, got %v", got)
	}
	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("up")); got != 1 {
		t.Errorf("expected 1 up metric, got %v", got)
	}
}

func TestRunWatchlistNow_SendsSummaryAndDirectionalReports(t *testing.T) {
	s, n, _, m := newTestScheduler(t, []string{"UP", "DOWN", "FLAT"})
	s.RunWatchlistNow()

	if len(n.sent) != 3 {
		t.Fatalf("expected summary + 2 reports, got %d messages", len(n.sent))
	}
	if !strings.Contains(n.sent[0], "观察列表") {
		t.Errorf("first message should be the summary:\n%s", n.sent[0])
	}
	if !strings.Contains(n.sent[1], "UP") || !strings.Contains(n.sent[2], "DOWN") {
		t.Errorf("expected UP then DOWN reports")
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("startup")); got != 1 {
		t.Errorf("expected 1 startup run, got %v", got)
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _, _ := newTestScheduler(t, []string{"UP", "FLAT"})
	ctx := context.Background()

	if reply := s.HandleCommand(ctx, "/analyze", "up"); !strings.Contains(reply, "🟢 UP") {
		t.Errorf("unexpected analyze reply:\n%s", reply)
	}
	if reply := s.HandleCommand(ctx, "/analyze", ""); !strings.Contains(reply, "用法") {
		t.Errorf("expected usage hint, got %q", reply)
	}
	if reply := s.HandleCommand(ctx, "/analyze", "nope"); !strings.Contains(reply, "分析失败") {
		t.Errorf("expected failure reply, got %q", reply)
	}
	if reply := s.HandleCommand(ctx, "/watchlist", ""); !strings.Contains(reply, "FLAT") {
		t.Errorf("unexpected watchlist reply:\n%s", reply)
	}
	if reply := s.HandleCommand(ctx, "/history", "up"); !strings.Contains(reply, "🟢 UP") {
		t.Errorf("expected journal entry from earlier /analyze:\n%s", reply)
	}
	if reply := s.HandleCommand(ctx, "/unknown", ""); !strings.Contains(reply, "/analyze") {
		t.Errorf("expected help text, got %q", reply)
	}
}

func TestRegisterAll(t *testing.T) {
	s, _, _, _ := newTestScheduler(t, nil)
	if err := s.RegisterAll("0 30 16 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected 1 cron entry, got %d", len(s.Cron.Entries()))
	}
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestCronLogger_RecoveredPanicIsStructured(t *testing.T) {
	var buf bytes.Buffer
	l := newCronLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	cron.Recover(l)(cron.FuncJob(func() { panic("boom") })).Run()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "ERROR" || entry["component"] != "cron" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if msg, _ := entry["error"].(string); !strings.Contains(msg, "boom") {
		t.Errorf("expected panic value in error attribute, got %v", entry["error"])
	}
}

func TestCronLogger_SkippedRunIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newCronLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	l.Info("skip", "entry", 1)
	if !strings.Contains(buf.String(), `"msg":"skip"`) || !strings.Contains(buf.String(), `"entry":1`) {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}
