package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.News.Quota != 3 {
		t.Errorf("quota = %d, want 3", cfg.News.Quota)
	}
	if cfg.News.PageSize != 5 {
		t.Errorf("page_size = %d, want 5", cfg.News.PageSize)
	}
	if cfg.Sentiment.BullishThreshold != 0.3 || cfg.Sentiment.BearishThreshold != -0.3 {
		t.Errorf("thresholds = (%v, %v), want (0.3, -0.3)",
			cfg.Sentiment.BullishThreshold, cfg.Sentiment.BearishThreshold)
	}
	if len(cfg.RiskPhrases) == 0 {
		t.Error("expected default risk phrases")
	}
	if cfg.RiskPhrases[0].Text != "market crash" {
		t.Errorf("first phrase = %q, want market crash (list order is policy)", cfg.RiskPhrases[0].Text)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Keys()) != 7 {
		t.Errorf("default catalog has %d instruments, want 7", len(cat.Keys()))
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
news:
  quota: 5
  require_signal: true
sentiment:
  bullish_threshold: 0.5
instruments:
  - key: gold
    keyword: XAUUSD
    quote_symbol: XAUUSD=X
    metal_code: USDXAU
    display_name: Gold
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.News.Quota != 5 || !cfg.News.RequireSignal {
		t.Errorf("news config not applied: %+v", cfg.News)
	}
	fc := cfg.FilterConfig()
	if fc.Thresholds.Bullish != 0.5 {
		t.Errorf("bullish threshold = %v, want 0.5", fc.Thresholds.Bullish)
	}
	if fc.Thresholds.Bearish != -0.3 {
		t.Errorf("bearish threshold = %v, want default -0.3", fc.Thresholds.Bearish)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if key, ok := cat.Resolve("USDXAU"); !ok || key != "gold" {
		t.Errorf("Resolve(USDXAU) = (%q, %v), want (gold, true)", key, ok)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
sentiment:
  bullish_threshold: -0.2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for negative bullish threshold")
	}
}
