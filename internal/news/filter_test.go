package news

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"market-signal-bot/internal/instrument"
	"market-signal-bot/internal/sentiment"
	"market-signal-bot/internal/types"
)

func goldInstrument() instrument.Instrument {
	return instrument.Instrument{
		Key: "gold", Keyword: "XAUUSD", QuoteSymbol: "XAUUSD=X",
		MetalCode: "USDXAU", DisplayName: "Gold",
	}
}

func newTestFilter(cfg FilterConfig) *Filter {
	return NewFilter(cfg, sentiment.NewAnalyzer())
}

func TestClassifyRequiresBothConditions(t *testing.T) {
	f := newTestFilter(DefaultFilterConfig())
	gold := goldInstrument()

	// Alias present, no financial keyword.
	noKeyword := types.RawArticle{
		Title:       "Gold medal awarded at championship",
		Description: "The ceremony took place on Sunday",
	}
	if _, ok := f.Classify(noKeyword, gold); ok {
		t.Error("article without financial keyword must not be accepted")
	}

	// Financial keyword present, no instrument alias.
	noAlias := types.RawArticle{
		Title:       "Stock market rises on strong data",
		Description: "Investors cheered the report",
	}
	if _, ok := f.Classify(noAlias, gold); ok {
		t.Error("article without instrument alias must not be accepted")
	}

	// Both conditions met.
	both := types.RawArticle{
		Source:      "NewsAPI",
		Title:       "Gold price surges to record high",
		Description: "Markets rally as investors pile in",
	}
	item, ok := f.Classify(both, gold)
	if !ok {
		t.Fatal("article with keyword and alias must be accepted")
	}
	if item.Instrument != "gold" {
		t.Errorf("instrument = %q, want canonical key gold", item.Instrument)
	}
	if item.Sentiment != types.SentimentBullish {
		t.Errorf("sentiment = %v, want Bullish", item.Sentiment)
	}
}

func TestClassifyEmptyTextNeverAccepted(t *testing.T) {
	f := newTestFilter(DefaultFilterConfig())
	gold := goldInstrument()

	for _, a := range []types.RawArticle{
		{},
		{Title: "", Description: ""},
		{Source: "NewsAPI", URL: "https://example.com"},
	} {
		if _, ok := f.Classify(a, gold); ok {
			t.Errorf("empty article accepted: %+v", a)
		}
	}
}

func TestClassifyAliasMatchViaQuoteSymbol(t *testing.T) {
	f := newTestFilter(DefaultFilterConfig())
	gold := goldInstrument()

	a := types.RawArticle{
		Title:       "XAUUSD climbs as dollar weakens",
		Description: "Traders eye the next market move",
	}
	if _, ok := f.Classify(a, gold); !ok {
		t.Error("keyword alias XAUUSD should satisfy the instrument condition")
	}
}

func TestClassifyRequireSignalDropsNeutral(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.RequireSignal = true
	f := newTestFilter(cfg)
	gold := goldInstrument()

	neutral := types.RawArticle{
		Title:       "Gold price unchanged in quiet trading",
		Description: "The session closed flat",
	}
	if _, ok := f.Classify(neutral, gold); ok {
		t.Error("neutral article accepted despite RequireSignal")
	}

	cfg.RequireSignal = false
	f = newTestFilter(cfg)
	item, ok := f.Classify(neutral, gold)
	if !ok {
		t.Fatal("neutral article must be accepted when RequireSignal is off")
	}
	if item.Sentiment != types.SentimentNeutral {
		t.Errorf("sentiment = %v, want Neutral", item.Sentiment)
	}
}

func acceptedArticle(n int) types.RawArticle {
	return types.RawArticle{
		Title:       fmt.Sprintf("Gold price surges to record high, report %d", n),
		Description: "Markets rally as investors pile in",
	}
}

func TestCollectStopsAtQuota(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.Quota = 3
	cfg.MaxPages = 10
	f := newTestFilter(cfg)

	pagesFetched := 0
	fetch := func(ctx context.Context, page int) ([]types.RawArticle, error) {
		pagesFetched++
		return []types.RawArticle{acceptedArticle(page*10 + 1), acceptedArticle(page*10 + 2)}, nil
	}

	items, err := f.Collect(context.Background(), goldInstrument(), fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Errorf("collected %d items, want quota 3", len(items))
	}
	if pagesFetched != 2 {
		t.Errorf("fetched %d pages, want 2", pagesFetched)
	}
}

func TestCollectStopsAtPageCap(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.Quota = 5
	cfg.MaxPages = 2
	f := newTestFilter(cfg)

	pagesFetched := 0
	fetch := func(ctx context.Context, page int) ([]types.RawArticle, error) {
		pagesFetched++
		// One accepted article per page; quota is never reached.
		return []types.RawArticle{acceptedArticle(page)}, nil
	}

	items, err := f.Collect(context.Background(), goldInstrument(), fetch)
	if err != nil {
		t.Fatal(err)
	}
	if pagesFetched != 2 {
		t.Errorf("fetched %d pages, want page cap 2", pagesFetched)
	}
	if len(items) != 2 {
		t.Errorf("collected %d items, want 2", len(items))
	}
}

func TestCollectStopsOnEmptyPage(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.Quota = 5
	cfg.MaxPages = 10
	f := newTestFilter(cfg)

	fetch := func(ctx context.Context, page int) ([]types.RawArticle, error) {
		if page == 1 {
			return []types.RawArticle{acceptedArticle(1)}, nil
		}
		return nil, nil
	}

	items, err := f.Collect(context.Background(), goldInstrument(), fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("collected %d items, want 1", len(items))
	}
}

func TestCollectReturnsPartialOnError(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.Quota = 5
	cfg.MaxPages = 10
	f := newTestFilter(cfg)

	boom := errors.New("upstream unavailable")
	fetch := func(ctx context.Context, page int) ([]types.RawArticle, error) {
		if page == 1 {
			return []types.RawArticle{acceptedArticle(1)}, nil
		}
		return nil, boom
	}

	items, err := f.Collect(context.Background(), goldInstrument(), fetch)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(items) != 1 {
		t.Errorf("collected %d items before the error, want 1", len(items))
	}
}
