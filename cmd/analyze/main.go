// Command analyze evaluates one payload file and prints the signal result
// together with the chart geometry as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"TrendSentinel/internal/chart"
	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/logger"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/strategy"
)

type output struct {
	Result *model.SignalResult  `json:"result"`
	Chart  *model.ChartGeometry `json:"chart"`
	Paths  map[string]string    `json:"paths,omitempty"`
}

func main() {
	var (
		payloadPath = flag.String("payload", "", "path to a payload JSON file (required)")
		cfgPath     = flag.String("config", "configs/config.yaml", "path to the YAML config")
		short       = flag.Int("short", 0, "short SMA period (overrides config)")
		long        = flag.Int("long", 0, "long SMA period (overrides config)")
		withPaths   = flag.Bool("svg", false, "include SVG path strings for each line")
		report      = flag.Bool("report", false, "print the Telegram report text instead of JSON")
	)
	flag.Parse()

	if err := run(*payloadPath, *cfgPath, *short, *long, *withPaths, *report); err != nil {
		slog.Error("analyze failed", "error", err)
		os.Exit(1)
	}
}

func run(payloadPath, cfgPath string, short, long int, withPaths, report bool) error {
	if payloadPath == "" {
		flag.Usage()
		return fmt.Errorf("-payload is required")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.NewWithWriter(os.Stderr, "trendsentinel-analyze", cfg.LogLevel)

	if short > 0 {
		cfg.Analysis.ShortPeriod = short
	}
	if long > 0 {
		cfg.Analysis.LongPeriod = long
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	p, err := collector.ReadPayloadFile(payloadPath)
	if err != nil {
		return err
	}
	res, err := strategy.Evaluate(p, cfg.Analysis.ShortPeriod, cfg.Analysis.LongPeriod)
	if err != nil {
		return err
	}
	slog.Debug("payload evaluated", "symbol", res.Company.Symbol, "signal", res.Signal)

	if report {
		_, err := fmt.Fprintln(os.Stdout, notifier.FormatSignalReport(res))
		return err
	}

	out := output{Result: res, Chart: chart.FromResult(res, cfg.Chart)}
	if withPaths {
		out.Paths = make(map[string]string, len(out.Chart.Lines))
		for _, line := range out.Chart.Lines {
			out.Paths[line.Name] = chart.SVGPath(line)
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
