package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
)

// Trigger types recorded with every report.
const (
	TriggerCron    = "CRON"
	TriggerCommand = "COMMAND"
	TriggerStartup = "STARTUP"
)

// Notifier delivers formatted reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages cron-driven and on-demand analysis runs.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Notifier    Notifier
	Recorder    recorder.Recorder
	Metrics     *metrics.Metrics
	Watchlist   []string
	MaxParallel int
	Ctx         context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, m *metrics.Metrics, watchlist []string, maxParallel int) *Scheduler {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	logger := newCronLogger(slog.Default())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Collector:   col,
		Notifier:    n,
		Recorder:    rec,
		Metrics:     m,
		Watchlist:   watchlist,
		MaxParallel: maxParallel,
		Ctx:         ctx,
	}
}

// RegisterAll registers the watchlist analysis task.
func (s *Scheduler) RegisterAll(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, func() { s.watchlistTask(TriggerCron) }); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	slog.Info("scheduler started", "entries", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunWatchlistNow executes the watchlist task immediately.
func (s *Scheduler) RunWatchlistNow() {
	s.watchlistTask(TriggerStartup)
}

func (s *Scheduler) watchlistTask(trigger string) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID, "trigger", trigger)
	log.Info("running watchlist analysis", "symbols", len(s.Watchlist))
	if s.Metrics != nil {
		s.Metrics.RunsTotal.WithLabelValues(strings.ToLower(trigger)).Inc()
	}

	results, failures := s.RunWatchlist(s.Ctx, runID, trigger)
	s.trySend(notifier.FormatRunSummary(results, failures))
	for _, res := range results {
		if res.Signal != model.SignalNeutral {
			s.trySend(notifier.FormatSignalReport(res))
		}
	}
	log.Info("watchlist analysis finished", "ok", len(results), "failed", len(failures))
}

// RunWatchlist analyzes every watchlist symbol with bounded parallelism.
// Results keep watchlist order; one symbol failing does not stop the others.
func (s *Scheduler) RunWatchlist(ctx context.Context, runID, trigger string) ([]*model.SignalResult, []notifier.RunFailure) {
	out := make([]*model.SignalResult, len(s.Watchlist))
	errs := make([]error, len(s.Watchlist))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.MaxParallel)
	for i, symbol := range s.Watchlist {
		g.Go(func() error {
			out[i], errs[i] = s.AnalyzeSymbol(gctx, runID, trigger, symbol)
			return nil
		})
	}
	g.Wait()

	var results []*model.SignalResult
	var failures []notifier.RunFailure
	for i, symbol := range s.Watchlist {
		if errs[i] != nil {
			failures = append(failures, notifier.RunFailure{Symbol: symbol, Err: errs[i]})
			continue
		}
		results = append(results, out[i])
	}
	return results, failures
}

// AnalyzeSymbol fetches and evaluates one symbol, then journals the result.
func (s *Scheduler) AnalyzeSymbol(ctx context.Context, runID, trigger, symbol string) (*model.SignalResult, error) {
	start := time.Now()
	res, err := s.Collector.Collect(ctx, symbol)
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("analysis failed", "run_id", runID, "symbol", symbol, "error", err)
		if s.Metrics != nil {
			s.Metrics.ObserveFailure(s.Collector.Source.Name(), elapsed)
		}
		return nil, err
	}

	slog.Info("analysis done",
		"run_id", runID,
		"symbol", symbol,
		"signal", res.Signal,
		"crossover_index", res.CrossoverIndex,
		"distance_pct", res.DistancePercent,
		"elapsed", elapsed,
	)
	if s.Metrics != nil {
		s.Metrics.ObserveResult(res, elapsed)
	}
	if err := s.Recorder.RecordReport(recorder.NewReportEntry(runID, trigger, res)); err != nil {
		slog.Error("record report", "run_id", runID, "symbol", symbol, "error", err)
	}
	return res, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command, args string) string {
	switch command {
	case "/analyze", "分析":
		symbol := strings.ToUpper(strings.TrimSpace(args))
		if symbol == "" {
			return "用法: /analyze SYMBOL"
		}
		res, err := s.AnalyzeSymbol(ctx, uuid.NewString(), TriggerCommand, symbol)
		if err != nil {
			return fmt.Sprintf("❌ %s 分析失败: %v", symbol, err)
		}
		return notifier.FormatSignalReport(res)
	case "/watchlist", "观察列表":
		results, failures := s.RunWatchlist(ctx, uuid.NewString(), TriggerCommand)
		return notifier.FormatRunSummary(results, failures)
	case "/history", "历史":
		symbol := strings.ToUpper(strings.TrimSpace(args))
		if symbol == "" {
			return "用法: /history SYMBOL"
		}
		entries, err := s.Recorder.Recent(symbol, 10)
		if err != nil {
			return fmt.Sprintf("❌ 查询失败: %v", err)
		}
		return notifier.FormatHistory(symbol, entries)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		slog.Error("send notification", "error", err)
		if s.Metrics != nil {
			s.Metrics.NotifyFailures.Inc()
		}
	}
}
