// Package pipeline runs one full collection cycle: news, prices, trends,
// risks, recommendations, macro. Stages degrade independently: a failed
// source is logged and the cycle proceeds on whatever the other sources
// delivered, so every run persists a consistent (possibly partial) snapshot.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"time"

	"market-signal-bot/internal/feed"
	"market-signal-bot/internal/instrument"
	"market-signal-bot/internal/logger"
	"market-signal-bot/internal/news"
	"market-signal-bot/internal/price"
	"market-signal-bot/internal/recommend"
	"market-signal-bot/internal/risk"
	"market-signal-bot/internal/trend"
	"market-signal-bot/internal/types"
)

// NewsSource delivers candidate articles one page at a time.
type NewsSource interface {
	FetchArticles(ctx context.Context, instrumentKey, keyword string, page int) ([]types.RawArticle, error)
}

// SpotSource is a specialized spot-price feed keyed by feed-specific codes.
type SpotSource interface {
	FetchRates(ctx context.Context, codes []string) (map[string]float64, error)
}

// QuoteSource is the broad quote feed that carries price history.
type QuoteSource interface {
	FetchSamples(ctx context.Context, symbols []string) (map[string]types.PriceSample, error)
}

// MacroSource delivers macro indicators from an API.
type MacroSource interface {
	FetchIndicators(ctx context.Context) ([]types.MacroIndicator, error)
}

// MacroScraper delivers scraped indicators and calendar events. It backs
// up MacroSource for indicators.
type MacroScraper interface {
	ScrapeIndicators(ctx context.Context) ([]types.MacroIndicator, error)
	ScrapeFedCalendar(ctx context.Context) ([]types.MacroEvent, error)
}

// Gateway persists cycle output. Every Replace call swaps the previous
// cycle's rows for the new ones atomically.
type Gateway interface {
	ReplaceNews(ctx context.Context, items []types.NewsItem, at time.Time) error
	ReplacePrices(ctx context.Context, quotes []types.PriceQuote) error
	ReplacePredictions(ctx context.Context, preds []types.TrendPrediction, at time.Time) error
	ReplaceRisks(ctx context.Context, risks []types.RiskFinding, at time.Time) error
	ReplaceRecommendations(ctx context.Context, recs []types.TradeRecommendation, at time.Time) error
	ReplaceMacroIndicators(ctx context.Context, inds []types.MacroIndicator, at time.Time) error
	ReplaceMacroEvents(ctx context.Context, events []types.MacroEvent, at time.Time) error
}

// Deps wires the pipeline. News, Quotes and Gateway are required; the
// rest may be nil and the matching stage is skipped.
type Deps struct {
	Catalog *instrument.Catalog
	Filter  *news.Filter
	Phrases []risk.Phrase
	News    NewsSource
	Metals  SpotSource
	Quotes  QuoteSource
	Fred    MacroSource
	Scraper MacroScraper
	Gateway Gateway
}

type Pipeline struct {
	deps Deps
}

func New(deps Deps) (*Pipeline, error) {
	if deps.Catalog == nil || deps.Filter == nil || deps.Gateway == nil {
		return nil, errors.New("pipeline: catalog, filter and gateway are required")
	}
	if len(deps.Phrases) == 0 {
		deps.Phrases = risk.DefaultPhrases()
	}
	return &Pipeline{deps: deps}, nil
}

// Result is everything one cycle produced, in deterministic order. Slices
// are sorted by instrument key so two runs over identical source data are
// byte-identical. RetryAfter is non-zero when a source reported rate
// limiting; the scheduler decides what to do with it.
type Result struct {
	News            []types.NewsItem
	Quotes          []types.PriceQuote
	Trends          []types.TrendPrediction
	Risks           []types.RiskFinding
	Recommendations []types.TradeRecommendation
	MacroIndicators []types.MacroIndicator
	MacroEvents     []types.MacroEvent
	RetryAfter      time.Duration
}

// RunCycle executes all stages for the timestamp now. The timestamp is an
// argument rather than read from the clock so a re-run over the same data
// produces the same rows. Persistence errors are joined into the returned
// error but never stop the remaining stages.
func (p *Pipeline) RunCycle(ctx context.Context, now time.Time) (*Result, error) {
	cycle := logger.StartStage(ctx, "cycle", "at", now.Format(time.RFC3339))
	ctx = cycle.GetContext()

	res := &Result{}
	var errs []error

	res.News, res.RetryAfter = p.collectNews(ctx)
	quotes, samples := p.collectPrices(ctx, now)
	res.Quotes = sortedQuotes(quotes)

	trends := trend.Predict(samples)
	res.Trends = sortedTrends(trends)
	// Instruments without a trend are excluded from risk detection and
	// recommendations alike, even when they have news.
	res.Risks = sortedRisks(risk.Detect(newsWithTrend(res.News, trends), p.deps.Phrases))
	res.Recommendations = sortedRecommendations(recommend.Synthesize(trends, res.News))

	for _, r := range res.Risks {
		logger.Risk(ctx, r.Instrument, string(r.Level), r.Reason)
	}
	for _, r := range res.Recommendations {
		logger.Recommendation(ctx, r.Instrument, string(r.Action), r.Confidence)
	}

	res.MacroIndicators, res.MacroEvents = p.collectMacro(ctx)

	errs = append(errs, p.persist(ctx, res, now)...)

	err := errors.Join(errs...)
	if err != nil {
		cycle.EndWithError(err, "news", len(res.News), "recommendations", len(res.Recommendations))
	} else {
		cycle.End("news", len(res.News), "recommendations", len(res.Recommendations))
	}
	return res, err
}

// collectNews gathers accepted articles per instrument in catalog order.
// A rate-limit error stops further fetching for the rest of the cycle and
// surfaces the provider's backoff; other errors skip one instrument.
func (p *Pipeline) collectNews(ctx context.Context) ([]types.NewsItem, time.Duration) {
	if p.deps.News == nil {
		return nil, 0
	}
	st := logger.StartStage(ctx, "news")

	var items []types.NewsItem
	var retryAfter time.Duration
	for _, inst := range p.deps.Catalog.Instruments() {
		got, err := p.deps.Filter.Collect(ctx, inst, func(ctx context.Context, page int) ([]types.RawArticle, error) {
			return p.deps.News.FetchArticles(ctx, inst.Key, inst.Keyword, page)
		})
		items = append(items, got...)
		if err != nil {
			var rle *feed.RateLimitError
			if errors.As(err, &rle) {
				retryAfter = rle.RetryAfter
				logger.Warn(ctx, "News source rate limited, stopping news collection",
					"instrument", inst.Key, "retry_after", rle.RetryAfter.String())
				break
			}
			logger.ErrorWithErr(ctx, "News fetch failed", err, "instrument", inst.Key)
		}
	}

	st.End("accepted", len(items))
	return items, retryAfter
}

func (p *Pipeline) collectPrices(ctx context.Context, now time.Time) (map[string]types.PriceQuote, map[string]types.PriceSample) {
	st := logger.StartStage(ctx, "prices")

	in := price.Input{}
	var metalCodes, quoteSymbols []string
	// Metal instruments are queried on both feeds: Normalize gives the
	// specialized price precedence, so the generic quote only stands in
	// when the metals feed is down.
	for _, inst := range p.deps.Catalog.Instruments() {
		if inst.MetalCode != "" {
			metalCodes = append(metalCodes, inst.MetalCode)
		}
		if inst.QuoteSymbol != "" {
			quoteSymbols = append(quoteSymbols, inst.QuoteSymbol)
		}
	}

	if p.deps.Metals != nil && len(metalCodes) > 0 {
		rates, err := p.deps.Metals.FetchRates(ctx, metalCodes)
		if err != nil {
			logger.ErrorWithErr(ctx, "Metals fetch failed", err)
		} else {
			in.Specialized = rates
		}
	}
	if p.deps.Quotes != nil && len(quoteSymbols) > 0 {
		samples, err := p.deps.Quotes.FetchSamples(ctx, quoteSymbols)
		if err != nil {
			logger.ErrorWithErr(ctx, "Quote fetch incomplete", err)
		}
		in.Generic = samples
	}

	quotes, samples := price.Normalize(in, p.deps.Catalog, now)
	st.End("quotes", len(quotes))
	return quotes, samples
}

// collectMacro prefers the API source for indicators and falls back to
// scraping when the API yields nothing. Calendar events only come from
// the scraper.
func (p *Pipeline) collectMacro(ctx context.Context) ([]types.MacroIndicator, []types.MacroEvent) {
	if p.deps.Fred == nil && p.deps.Scraper == nil {
		return nil, nil
	}
	st := logger.StartStage(ctx, "macro")

	var indicators []types.MacroIndicator
	if p.deps.Fred != nil {
		inds, err := p.deps.Fred.FetchIndicators(ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Macro API fetch failed", err)
		}
		indicators = inds
	}
	if len(indicators) == 0 && p.deps.Scraper != nil {
		inds, err := p.deps.Scraper.ScrapeIndicators(ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Macro scrape failed", err)
		}
		indicators = inds
	}

	var events []types.MacroEvent
	if p.deps.Scraper != nil {
		evs, err := p.deps.Scraper.ScrapeFedCalendar(ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Fed calendar scrape failed", err)
		}
		events = evs
	}

	st.End("indicators", len(indicators), "events", len(events))
	return indicators, events
}

func (p *Pipeline) persist(ctx context.Context, res *Result, now time.Time) []error {
	st := logger.StartStage(ctx, "persist")
	var errs []error
	record := func(name string, err error) {
		if err != nil {
			logger.ErrorWithErr(ctx, "Persist failed", err, "table", name)
			errs = append(errs, err)
		}
	}

	gw := p.deps.Gateway
	record("news_articles", gw.ReplaceNews(ctx, res.News, now))
	record("market_prices", gw.ReplacePrices(ctx, res.Quotes))
	record("price_predictions", gw.ReplacePredictions(ctx, res.Trends, now))
	record("news_risks", gw.ReplaceRisks(ctx, res.Risks, now))
	record("trade_recommendations", gw.ReplaceRecommendations(ctx, res.Recommendations, now))
	record("macro_indicators", gw.ReplaceMacroIndicators(ctx, res.MacroIndicators, now))
	record("macro_events", gw.ReplaceMacroEvents(ctx, res.MacroEvents, now))

	if len(errs) > 0 {
		st.EndWithError(errs[0], "failures", len(errs))
	} else {
		st.End()
	}
	return errs
}

func sortedQuotes(m map[string]types.PriceQuote) []types.PriceQuote {
	out := make([]types.PriceQuote, 0, len(m))
	for _, q := range m {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })
	return out
}

func sortedTrends(m map[string]types.TrendPrediction) []types.TrendPrediction {
	out := make([]types.TrendPrediction, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })
	return out
}

func sortedRisks(m map[string]types.RiskFinding) []types.RiskFinding {
	out := make([]types.RiskFinding, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })
	return out
}

func sortedRecommendations(m map[string]types.TradeRecommendation) []types.TradeRecommendation {
	out := make([]types.TradeRecommendation, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument < out[j].Instrument })
	return out
}

// newsWithTrend keeps only the items whose instrument produced a trend
// this cycle. Detection stays pure; the gating lives here.
func newsWithTrend(items []types.NewsItem, trends map[string]types.TrendPrediction) []types.NewsItem {
	out := make([]types.NewsItem, 0, len(items))
	for _, item := range items {
		if _, ok := trends[item.Instrument]; ok {
			out = append(out, item)
		}
	}
	return out
}
