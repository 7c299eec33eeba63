// Package metrics exposes Prometheus instrumentation for analysis runs.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TrendSentinel/internal/model"
)

// Metrics holds all Prometheus metrics for the service. Analyses are labelled
// by signal, failures by source kind, distances by symbol and runs by trigger.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisFailures *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	DistancePercent  *prometheus.GaugeVec
	NotifyFailures   prometheus.Counter
	RunsTotal        *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics registers and returns all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_analyses_total",
			Help: "Completed analyses by resulting signal",
		}, []string{"signal"}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_analysis_failures_total",
			Help: "Analyses that failed to fetch or evaluate a payload",
		}, []string{"source"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendsentinel_analysis_duration_seconds",
			Help:    "Time to fetch and evaluate one symbol",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		DistancePercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trendsentinel_crossover_distance_percent",
			Help: "Latest price distance from the crossover price, in percent",
		}, []string{"symbol"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_notify_failures_total",
			Help: "Reports that could not be delivered",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_runs_total",
			Help: "Watchlist runs by trigger",
		}, []string{"trigger"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisFailures,
		m.AnalysisDuration,
		m.DistancePercent,
		m.NotifyFailures,
		m.RunsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveResult records a successful analysis.
func (m *Metrics) ObserveResult(res *model.SignalResult, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(string(res.Signal)).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	if res.HasCrossover() && res.DistanceDefined {
		m.DistancePercent.WithLabelValues(res.Company.Symbol).Set(res.DistancePercent)
	} else {
		m.DistancePercent.DeleteLabelValues(res.Company.Symbol)
	}
}

// ObserveFailure records a failed analysis.
func (m *Metrics) ObserveFailure(source string, elapsed time.Duration) {
	m.AnalysisFailures.WithLabelValues(source).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
