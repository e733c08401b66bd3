package news

import (
	"context"

	"market-signal-bot/internal/instrument"
	"market-signal-bot/internal/types"
)

// PageFetch returns one page of candidate articles for the instrument the
// collector is working on. Pages are numbered from 1. An empty page signals
// the source is exhausted.
type PageFetch func(ctx context.Context, page int) ([]types.RawArticle, error)

// Collect folds over a paginated article source until the per-instrument
// quota is met or the page cap is reached, whichever comes first. The
// filter itself is stateless per article; accumulation lives only here.
// A fetch error ends collection and returns whatever was accepted so far
// alongside the error, so a cycle can proceed on partial data.
func (f *Filter) Collect(ctx context.Context, inst instrument.Instrument, fetch PageFetch) ([]types.NewsItem, error) {
	accepted := make([]types.NewsItem, 0, f.cfg.Quota)

	for page := 1; page <= f.cfg.MaxPages && len(accepted) < f.cfg.Quota; page++ {
		candidates, err := fetch(ctx, page)
		if err != nil {
			return accepted, err
		}
		if len(candidates) == 0 {
			break
		}
		for _, raw := range candidates {
			item, ok := f.Classify(raw, inst)
			if !ok {
				continue
			}
			accepted = append(accepted, item)
			if len(accepted) >= f.cfg.Quota {
				break
			}
		}
	}
	return accepted, nil
}
