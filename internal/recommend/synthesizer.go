package recommend

import (
	"market-signal-bot/internal/types"
)

const (
	// ConfidenceAligned applies when trend and sentiment agree.
	ConfidenceAligned = 90.0
	// ConfidenceHold applies to every other combination.
	ConfidenceHold = 70.0
)

// Synthesize emits exactly one recommendation per instrument that has a
// trend prediction. The sentiment used is the first occurrence for the
// instrument in the filtered news slice order, not the most recent by
// timestamp. That first-occurrence policy is inherited behavior kept on
// purpose; changing it to recency would silently change recommendations.
// Instruments with no news at all read as Neutral and fall into HOLD.
func Synthesize(trends map[string]types.TrendPrediction, items []types.NewsItem) map[string]types.TradeRecommendation {
	sentiments := firstSentiments(items)

	out := make(map[string]types.TradeRecommendation, len(trends))
	for key, pred := range trends {
		s, ok := sentiments[key]
		if !ok {
			s = types.SentimentNeutral
		}

		action, confidence := types.ActionHold, ConfidenceHold
		switch {
		case pred.Trend == types.TrendBullish && s == types.SentimentBullish:
			action, confidence = types.ActionBuy, ConfidenceAligned
		case pred.Trend == types.TrendBearish && s == types.SentimentBearish:
			action, confidence = types.ActionSell, ConfidenceAligned
		}

		out[key] = types.TradeRecommendation{
			Instrument: key,
			Action:     action,
			Confidence: confidence,
		}
	}
	return out
}

// firstSentiments records, for each instrument, the sentiment of its first
// item in slice order.
func firstSentiments(items []types.NewsItem) map[string]types.Sentiment {
	out := make(map[string]types.Sentiment)
	for _, item := range items {
		if _, seen := out[item.Instrument]; !seen {
			out[item.Instrument] = item.Sentiment
		}
	}
	return out
}
