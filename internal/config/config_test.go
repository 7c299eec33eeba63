package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"TrendSentinel/internal/strategy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("WATCHLIST", "")
	t.Setenv("SHORT_PERIOD", "")
	t.Setenv("LONG_PERIOD", "")
	t.Setenv("SOURCE_KIND", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.ShortPeriod != 5 || cfg.Analysis.LongPeriod != 10 {
		t.Errorf("unexpected default periods %d/%d", cfg.Analysis.ShortPeriod, cfg.Analysis.LongPeriod)
	}
	if cfg.Source.Kind != SourceFile || cfg.Chart.Width != 800 || cfg.Schedule.MaxParallel != 4 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: yaml-token
  chat_id: 1001
source:
  kind: http
  base_url: https://reports.example.com
analysis:
  short_period: 9
  long_period: 21
chart:
  width: 640
  height: 320
  padding: 20
watchlist: [msft, " nvda "]
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("LONG_PERIOD", "30")
	t.Setenv("WATCHLIST", "")
	t.Setenv("SHORT_PERIOD", "")
	t.Setenv("SOURCE_KIND", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != 1001 {
		t.Errorf("unexpected telegram config: %+v", cfg.Telegram)
	}
	if cfg.Analysis.ShortPeriod != 9 || cfg.Analysis.LongPeriod != 30 {
		t.Errorf("unexpected periods %d/%d", cfg.Analysis.ShortPeriod, cfg.Analysis.LongPeriod)
	}
	if cfg.Chart.Width != 640 || cfg.Chart.Padding != 20 {
		t.Errorf("unexpected chart %+v", cfg.Chart)
	}
	if len(cfg.Watchlist) != 2 || cfg.Watchlist[0] != "MSFT" || cfg.Watchlist[1] != "NVDA" {
		t.Errorf("unexpected watchlist %v", cfg.Watchlist)
	}
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("SHORT_PERIOD", "five")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for non-numeric SHORT_PERIOD")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	t.Setenv("SHORT_PERIOD", "")
	path := writeConfig(t, "analysis: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.applyDefaults()
		return c
	}

	c := base()
	c.Analysis.ShortPeriod, c.Analysis.LongPeriod = 20, 10
	if err := c.Validate(); !errors.Is(err, strategy.ErrInvalidPeriods) {
		t.Errorf("expected ErrInvalidPeriods, got %v", err)
	}

	c = base()
	c.Chart.Padding = 500
	if err := c.Validate(); err == nil {
		t.Error("expected chart validation error")
	}

	c = base()
	c.Source.Kind = "carrier-pigeon"
	if err := c.Validate(); err == nil {
		t.Error("expected source kind error")
	}

	c = base()
	c.Source.Kind = SourceGemini
	if err := c.Validate(); err == nil {
		t.Error("expected missing gemini key error")
	}

	c = base()
	if err := c.ValidateBot(); err == nil {
		t.Error("expected missing telegram token error")
	}
}
