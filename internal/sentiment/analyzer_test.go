package sentiment

import (
	"testing"

	"market-signal-bot/internal/types"
)

func TestLabelThresholds(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		score float64
		want  types.Sentiment
	}{
		{1.0, types.SentimentBullish},
		{0.3, types.SentimentBullish}, // inclusive boundary
		{0.29, types.SentimentNeutral},
		{0.0, types.SentimentNeutral},
		{-0.29, types.SentimentNeutral},
		{-0.3, types.SentimentBearish}, // inclusive boundary
		{-1.0, types.SentimentBearish},
	}
	for _, c := range cases {
		if got := Label(c.score, th); got != c.want {
			t.Errorf("Label(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestCompoundEmptyText(t *testing.T) {
	a := NewAnalyzer()
	for _, text := range []string{"", "   ", "...!?"} {
		if got := a.Compound(text); got != 0 {
			t.Errorf("Compound(%q) = %v, want 0", text, got)
		}
	}
}

func TestCompoundDirection(t *testing.T) {
	a := NewAnalyzer()
	th := DefaultThresholds()

	pos := a.Compound("Gold rallies to record gains as markets surge")
	if Label(pos, th) != types.SentimentBullish {
		t.Errorf("expected bullish label for positive headline, score %v", pos)
	}

	neg := a.Compound("Stocks crash as recession fears trigger panic selloff")
	if Label(neg, th) != types.SentimentBearish {
		t.Errorf("expected bearish label for negative headline, score %v", neg)
	}

	flat := a.Compound("The committee meets on Tuesday")
	if Label(flat, th) != types.SentimentNeutral {
		t.Errorf("expected neutral label for flat headline, score %v", flat)
	}
}

func TestCompoundBounded(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{
		"surge surge surge surge rally rally rally gains gains record",
		"crash crash crash recession recession panic selloff slump tumble",
	}
	for _, text := range texts {
		s := a.Compound(text)
		if s < -1 || s > 1 {
			t.Errorf("Compound(%q) = %v, out of [-1,1]", text, s)
		}
	}
}

func TestCompoundDeterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "Markets rally on strong growth despite inflation concerns"
	first := a.Compound(text)
	for i := 0; i < 5; i++ {
		if got := a.Compound(text); got != first {
			t.Fatalf("Compound not deterministic: %v then %v", first, got)
		}
	}
}
