package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"
)

// Source kinds accepted in source.kind.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceGemini = "gemini"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Source struct {
		Kind         string   `yaml:"kind"`
		BaseURL      string   `yaml:"base_url"`
		APIKey       string   `yaml:"api_key"`
		Dir          string   `yaml:"dir"`
		GeminiModels []string `yaml:"gemini_models"`
	} `yaml:"source"`
	Analysis struct {
		ShortPeriod int `yaml:"short_period"`
		LongPeriod  int `yaml:"long_period"`
	} `yaml:"analysis"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
		MaxParallel  int    `yaml:"max_parallel"`
		RunOnStart   bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Chart     model.Viewport `yaml:"chart"`
	Watchlist []string       `yaml:"watchlist"`
	LogLevel  string         `yaml:"log_level"`
	Proxy     string         `yaml:"proxy"`
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("SOURCE_KIND"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("SOURCE_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("SOURCE_API_KEY"); v != "" {
		c.Source.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Source.Kind == SourceGemini {
		c.Source.APIKey = v
	}
	if v := os.Getenv("SOURCE_DIR"); v != "" {
		c.Source.Dir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SHORT_PERIOD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHORT_PERIOD: %w", err)
		}
		c.Analysis.ShortPeriod = n
	}
	if v := os.Getenv("LONG_PERIOD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LONG_PERIOD: %w", err)
		}
		c.Analysis.LongPeriod = n
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitSymbols(v)
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		c.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Schedule.RunOnStart = v == "true" || v == "1"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceFile
	}
	if c.Source.Dir == "" {
		c.Source.Dir = "data/payloads"
	}
	if c.Analysis.ShortPeriod == 0 {
		c.Analysis.ShortPeriod = 5
	}
	if c.Analysis.LongPeriod == 0 {
		c.Analysis.LongPeriod = 10
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 800
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 400
	}
	if c.Chart.Padding == 0 {
		c.Chart.Padding = 40
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []string{"AAPL"}
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.Schedule.AnalysisCron == "" {
		c.Schedule.AnalysisCron = "0 30 16 * * 1-5"
	}
	if c.Schedule.MaxParallel <= 0 {
		c.Schedule.MaxParallel = 4
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the settings every entry point depends on.
func (c *Config) Validate() error {
	if err := strategy.ValidatePeriods(c.Analysis.ShortPeriod, c.Analysis.LongPeriod); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if c.Chart.Width <= 2*c.Chart.Padding || c.Chart.Height <= 2*c.Chart.Padding {
		return fmt.Errorf("chart: viewport %gx%g leaves no room inside padding %g", c.Chart.Width, c.Chart.Height, c.Chart.Padding)
	}
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for the file source")
		}
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required for the http source")
		}
	case SourceGemini:
		if c.Source.APIKey == "" {
			return fmt.Errorf("source.api_key (or GEMINI_API_KEY) is required for the gemini source")
		}
	default:
		return fmt.Errorf("source.kind %q is not one of file, http, gemini", c.Source.Kind)
	}
	return nil
}

// ValidateBot checks the additional settings of the long-running service.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}
	return nil
}

// LogValue keeps secrets out of structured logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", c.Source.Kind),
		slog.Int("short_period", c.Analysis.ShortPeriod),
		slog.Int("long_period", c.Analysis.LongPeriod),
		slog.Any("watchlist", c.Watchlist),
		slog.String("analysis_cron", c.Schedule.AnalysisCron),
		slog.Bool("journal", c.Database.SQLitePath != ""),
		slog.String("metrics_addr", c.Metrics.Addr),
	)
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
