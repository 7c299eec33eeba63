package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/logger"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.New("trendsentinel", cfg.LogLevel)
	slog.Info("TrendSentinel starting", "config", cfg)

	if err := cfg.ValidateBot(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("data source ready", "source", src.Name())
	col := collector.NewCollector(src, cfg.Analysis.ShortPeriod, cfg.Analysis.LongPeriod)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			slog.Warn("init sqlite recorder failed, using noop", "error", err)
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	m := metrics.NewMetrics()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				slog.Error("metrics server", "error", err)
			}
		}()
		slog.Info("metrics server started", "addr", cfg.Metrics.Addr)
	}

	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if err != nil {
		return fmt.Errorf("init telegram: %w", err)
	}

	sched := scheduler.NewScheduler(ctx, col, tn, rec, m, cfg.Watchlist, cfg.Schedule.MaxParallel)
	if err := sched.RegisterAll(cfg.Schedule.AnalysisCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	slog.Info("telegram polling started")

	if cfg.Schedule.RunOnStart {
		slog.Info("run_on_start enabled, analyzing watchlist now")
		go sched.RunWatchlistNow()
	}

	slog.Info("TrendSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()
	slog.Info("shutdown signal received, stopping")
	return nil
}

func newSource(ctx context.Context, cfg *config.Config) (collector.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return collector.NewHTTPSource(cfg.Source.BaseURL, cfg.Source.APIKey, cfg.Proxy), nil
	case config.SourceGemini:
		return collector.NewGeminiSource(ctx, cfg.Source.APIKey, cfg.Source.GeminiModels)
	case config.SourceFile:
		return collector.NewFileSource(cfg.Source.Dir), nil
	}
	return nil, errors.New("unknown source kind " + cfg.Source.Kind)
}
