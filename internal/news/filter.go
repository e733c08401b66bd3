package news

import (
	"strings"

	"market-signal-bot/internal/instrument"
	"market-signal-bot/internal/sentiment"
	"market-signal-bot/internal/types"
)

// FilterConfig carries every knob the filter needs so that classification
// is a pure function of (article, instrument, config).
type FilterConfig struct {
	// Keywords is the financial-relevance term set. An article must
	// contain at least one of these AND at least one instrument alias.
	Keywords []string
	// Quota is how many accepted articles to collect per instrument.
	Quota int
	// MaxPages caps how many upstream pages Collect will scan before
	// accepting fewer than Quota.
	MaxPages int
	// RequireSignal drops articles classified Neutral.
	RequireSignal bool
	Thresholds    sentiment.Thresholds
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Keywords:   DefaultKeywords(),
		Quota:      3,
		MaxPages:   3,
		Thresholds: sentiment.DefaultThresholds(),
	}
}

// DefaultKeywords is the built-in financial-relevance term set.
func DefaultKeywords() []string {
	return []string{
		"market", "markets", "stock", "stocks", "price", "prices",
		"trading", "trade", "investor", "investors", "economy", "economic",
		"inflation", "fed", "rate", "rates", "earnings", "crypto",
		"currency", "dollar", "shares", "index", "bond", "bonds",
	}
}

// Filter accepts and classifies candidate articles. It holds no
// per-article state, so callers may feed it any number of pages.
type Filter struct {
	cfg      FilterConfig
	analyzer *sentiment.Analyzer
}

func NewFilter(cfg FilterConfig, analyzer *sentiment.Analyzer) *Filter {
	return &Filter{cfg: cfg, analyzer: analyzer}
}

// Classify filters a single candidate article against an instrument and, if
// accepted, returns the classified NewsItem with the canonical instrument
// key attached. Missing title or description read as empty strings; fully
// empty text can never satisfy the keyword and alias conditions.
func (f *Filter) Classify(a types.RawArticle, inst instrument.Instrument) (types.NewsItem, bool) {
	text := strings.ToLower(strings.TrimSpace(a.Title + " " + a.Description))

	if !containsAny(text, f.cfg.Keywords) {
		return types.NewsItem{}, false
	}
	if !containsAny(text, instrumentTerms(inst)) {
		return types.NewsItem{}, false
	}

	label := sentiment.Label(f.analyzer.Compound(text), f.cfg.Thresholds)
	if f.cfg.RequireSignal && label == types.SentimentNeutral {
		return types.NewsItem{}, false
	}

	return types.NewsItem{
		Source:      a.Source,
		Instrument:  inst.Key,
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		Sentiment:   label,
	}, true
}

// instrumentTerms is the alias set an article must mention: every external
// alias plus the canonical key spelled with spaces ("dow-jones" matches
// "dow jones" in headline text).
func instrumentTerms(inst instrument.Instrument) []string {
	terms := inst.Aliases()
	terms = append(terms, strings.ReplaceAll(inst.Key, "-", " "))
	return terms
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
