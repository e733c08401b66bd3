package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"market-signal-bot/internal/instrument"
	"market-signal-bot/internal/news"
	"market-signal-bot/internal/risk"
	"market-signal-bot/internal/sentiment"
)

// Config holds all application configuration. Keyword sets, thresholds and
// phrase lists live here and are handed to each stage explicitly, so the
// stages stay pure functions of (input, config).
type Config struct {
	Schedule struct {
		CycleCron  string `yaml:"cycle_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	News struct {
		PageSize      int      `yaml:"page_size"`
		Quota         int      `yaml:"quota"`
		MaxPages      int      `yaml:"max_pages"`
		RequireSignal bool     `yaml:"require_signal"`
		Keywords      []string `yaml:"keywords"`
	} `yaml:"news"`
	Sentiment struct {
		BullishThreshold float64 `yaml:"bullish_threshold"`
		BearishThreshold float64 `yaml:"bearish_threshold"`
	} `yaml:"sentiment"`
	RiskPhrases []risk.Phrase `yaml:"risk_phrases"`
	Instruments []struct {
		Key         string `yaml:"key"`
		Keyword     string `yaml:"keyword"`
		QuoteSymbol string `yaml:"quote_symbol"`
		MetalCode   string `yaml:"metal_code"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"instruments"`
	Macro struct {
		FREDEnabled   bool `yaml:"fred_enabled"`
		ScrapeEnabled bool `yaml:"scrape_enabled"`
	} `yaml:"macro"`

	// API keys come from the environment only, never from the file.
	NewsAPIKey   string `yaml:"-"`
	MetalsAPIKey string `yaml:"-"`
	FREDAPIKey   string `yaml:"-"`
}

// LoadConfig reads the YAML file, applies environment overrides and
// defaults, and validates the result. A missing file is not an error; the
// defaults describe a complete working setup.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	c.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	c.MetalsAPIKey = os.Getenv("METALS_API_KEY")
	c.FREDAPIKey = os.Getenv("FRED_API_KEY")
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CYCLE_CRON"); v != "" {
		c.Schedule.CycleCron = v
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Schedule.CycleCron == "" {
		// Every two hours, the collection cadence this feed has always run at.
		c.Schedule.CycleCron = "0 0 */2 * * *"
	}
	if c.Schedule.MaxRetries == 0 {
		c.Schedule.MaxRetries = 3
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/market_signals.db"
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 5
	}
	if c.News.Quota == 0 {
		c.News.Quota = 3
	}
	if c.News.MaxPages == 0 {
		c.News.MaxPages = 3
	}
	if len(c.News.Keywords) == 0 {
		c.News.Keywords = news.DefaultKeywords()
	}
	if c.Sentiment.BullishThreshold == 0 {
		c.Sentiment.BullishThreshold = sentiment.DefaultThresholds().Bullish
	}
	if c.Sentiment.BearishThreshold == 0 {
		c.Sentiment.BearishThreshold = sentiment.DefaultThresholds().Bearish
	}
	if len(c.RiskPhrases) == 0 {
		c.RiskPhrases = risk.DefaultPhrases()
	}
}

// Validate checks internal consistency of the loaded configuration.
func (c *Config) Validate() error {
	if c.News.Quota < 1 {
		return fmt.Errorf("news.quota must be at least 1, got %d", c.News.Quota)
	}
	if c.News.MaxPages < 1 {
		return fmt.Errorf("news.max_pages must be at least 1, got %d", c.News.MaxPages)
	}
	if c.Sentiment.BullishThreshold <= 0 || c.Sentiment.BullishThreshold > 1 {
		return fmt.Errorf("sentiment.bullish_threshold must be in (0,1], got %v", c.Sentiment.BullishThreshold)
	}
	if c.Sentiment.BearishThreshold >= 0 || c.Sentiment.BearishThreshold < -1 {
		return fmt.Errorf("sentiment.bearish_threshold must be in [-1,0), got %v", c.Sentiment.BearishThreshold)
	}
	for _, p := range c.RiskPhrases {
		if p.Text == "" {
			return fmt.Errorf("risk phrase with empty text")
		}
	}
	return nil
}

// Catalog builds the instrument catalog from config, or the built-in
// universe when the file lists none.
func (c *Config) Catalog() (*instrument.Catalog, error) {
	if len(c.Instruments) == 0 {
		return instrument.DefaultCatalog(), nil
	}
	list := make([]instrument.Instrument, 0, len(c.Instruments))
	for _, in := range c.Instruments {
		list = append(list, instrument.Instrument{
			Key:         in.Key,
			Keyword:     in.Keyword,
			QuoteSymbol: in.QuoteSymbol,
			MetalCode:   in.MetalCode,
			DisplayName: in.DisplayName,
		})
	}
	return instrument.NewCatalog(list)
}

// FilterConfig assembles the news filter configuration from config values.
func (c *Config) FilterConfig() news.FilterConfig {
	return news.FilterConfig{
		Keywords:      c.News.Keywords,
		Quota:         c.News.Quota,
		MaxPages:      c.News.MaxPages,
		RequireSignal: c.News.RequireSignal,
		Thresholds: sentiment.Thresholds{
			Bullish: c.Sentiment.BullishThreshold,
			Bearish: c.Sentiment.BearishThreshold,
		},
	}
}
