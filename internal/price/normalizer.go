package price

import (
	"time"

	"github.com/shopspring/decimal"

	"market-signal-bot/internal/instrument"
	"market-signal-bot/internal/types"
)

// Input is the raw per-source quote material for one cycle. Both maps are
// keyed by source-specific symbols, which the normalizer resolves through
// the catalog; symbols that resolve to nothing are dropped.
type Input struct {
	// Specialized carries spot-only prices from a dedicated feed (the
	// metals feed). It wins over Generic for any instrument it covers.
	Specialized map[string]float64
	// Generic carries current plus prior observations from the broad
	// quote feed.
	Generic map[string]types.PriceSample
}

// Normalize produces at most one canonical quote and one canonical sample
// per instrument. A specialized price takes precedence; the generic feed is
// skipped for any instrument already resolved. All prices are rounded to
// two fraction digits before leaving this stage. Instruments absent from
// every source are simply absent from the output.
func Normalize(in Input, cat *instrument.Catalog, observedAt time.Time) (map[string]types.PriceQuote, map[string]types.PriceSample) {
	quotes := make(map[string]types.PriceQuote)
	samples := make(map[string]types.PriceSample)

	for symbol, raw := range in.Specialized {
		key, ok := cat.Resolve(symbol)
		if !ok {
			continue
		}
		p := round2(raw)
		quotes[key] = types.PriceQuote{Instrument: key, Price: p, ObservedAt: observedAt}
		// Spot-only feed: the current price stands in for the previous
		// one as well. Downstream this deterministically reads Bearish,
		// a documented degenerate case rather than a genuine signal.
		samples[key] = types.PriceSample{Current: p, Previous: p, HasPrevious: true}
	}

	for symbol, sample := range in.Generic {
		key, ok := cat.Resolve(symbol)
		if !ok {
			continue
		}
		if _, resolved := quotes[key]; resolved {
			continue
		}
		p := round2(sample.Current)
		quotes[key] = types.PriceQuote{Instrument: key, Price: p, ObservedAt: observedAt}
		samples[key] = types.PriceSample{
			Current:     p,
			Previous:    round2(sample.Previous),
			HasPrevious: sample.HasPrevious,
		}
	}

	return quotes, samples
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
