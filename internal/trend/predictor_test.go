package trend

import (
	"testing"

	"market-signal-bot/internal/types"
)

func TestPredictDirection(t *testing.T) {
	cases := []struct {
		name              string
		current, previous float64
		want              types.Trend
	}{
		{"rising", 100, 99, types.TrendBullish},
		{"falling", 99, 100, types.TrendBearish},
		{"flat resolves bearish", 100, 100, types.TrendBearish},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			preds := Predict(map[string]types.PriceSample{
				"bitcoin": {Current: c.current, Previous: c.previous, HasPrevious: true},
			})
			p, ok := preds["bitcoin"]
			if !ok {
				t.Fatal("no prediction emitted")
			}
			if p.Trend != c.want {
				t.Errorf("trend = %v, want %v", p.Trend, c.want)
			}
			if p.Confidence != Confidence {
				t.Errorf("confidence = %v, want fixed %v", p.Confidence, Confidence)
			}
		})
	}
}

func TestPredictSkipsWithoutLookBack(t *testing.T) {
	preds := Predict(map[string]types.PriceSample{
		"nasdaq": {Current: 17000, HasPrevious: false},
	})
	if len(preds) != 0 {
		t.Errorf("got %d predictions without look-back, want 0", len(preds))
	}
}

func TestPredictDegenerateSpotSample(t *testing.T) {
	// A spot-only feed reports the current price as its own previous;
	// that must deterministically come out Bearish.
	preds := Predict(map[string]types.PriceSample{
		"gold": {Current: 2300.50, Previous: 2300.50, HasPrevious: true},
	})
	p, ok := preds["gold"]
	if !ok {
		t.Fatal("no prediction for degenerate sample")
	}
	if p.Trend != types.TrendBearish {
		t.Errorf("trend = %v, want Bearish", p.Trend)
	}
}
