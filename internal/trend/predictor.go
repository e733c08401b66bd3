package trend

import (
	"market-signal-bot/internal/types"
)

// Confidence is the fixed confidence attached to every prediction. The
// trend is a two-point directional heuristic, not a calibrated model, so
// the value does not scale with the magnitude of the move.
const Confidence = 65.0

// Predict emits one directional prediction per instrument that has two
// comparable price points. Strictly greater means Bullish; anything else,
// equality included, means Bearish. The equality tie-break is deliberate:
// a flat price is treated as absence of upward momentum, not skipped.
// Samples without a previous observation produce no prediction and the
// instrument drops out of every downstream stage.
func Predict(samples map[string]types.PriceSample) map[string]types.TrendPrediction {
	out := make(map[string]types.TrendPrediction, len(samples))
	for key, s := range samples {
		if !s.HasPrevious {
			continue
		}
		direction := types.TrendBearish
		if s.Current > s.Previous {
			direction = types.TrendBullish
		}
		out[key] = types.TrendPrediction{
			Instrument: key,
			Trend:      direction,
			Confidence: Confidence,
		}
	}
	return out
}
