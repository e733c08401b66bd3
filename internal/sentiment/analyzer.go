package sentiment

import (
	"strings"
	"unicode"

	"market-signal-bot/internal/types"
)

// Analyzer scores text with financial sentiment word lists
// (Loughran-McDonald style, extended with market-news vocabulary).
// It is stateless after construction and safe for concurrent use.
type Analyzer struct {
	positive    map[string]bool
	negative    map[string]bool
	uncertainty map[string]bool
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positive:    loadPositiveWords(),
		negative:    loadNegativeWords(),
		uncertainty: loadUncertaintyWords(),
	}
}

// Compound returns a score in [-1, 1]. Empty or word-free text scores 0.
func (a *Analyzer) Compound(text string) float64 {
	words := tokenize(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var positive, negative, uncertain int
	for _, w := range words {
		if a.positive[w] {
			positive++
		}
		if a.negative[w] {
			negative++
		}
		if a.uncertainty[w] {
			uncertain++
		}
	}

	total := float64(len(words))
	net := (float64(positive) - float64(negative)) / total

	// Sentiment words are a small fraction of any text; amplify the net
	// ratio so a clearly one-sided headline lands past the label
	// thresholds, then dampen by hedging language.
	score := net * 10
	uncertaintyRatio := clamp(float64(uncertain)/total*20, 0, 1)
	score *= 1 - uncertaintyRatio*0.5

	return clamp(score, -1, 1)
}

// Thresholds are the fixed label cut points over the compound score.
// Both bounds are inclusive.
type Thresholds struct {
	Bullish float64
	Bearish float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Bullish: 0.3, Bearish: -0.3}
}

// Label maps a compound score to a sentiment label.
func Label(score float64, t Thresholds) types.Sentiment {
	switch {
	case score >= t.Bullish:
		return types.SentimentBullish
	case score <= t.Bearish:
		return types.SentimentBearish
	default:
		return types.SentimentNeutral
	}
}

func tokenize(text string) []string {
	var words []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			cur.WriteRune(r)
		} else if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "advance", "advances", "beat", "beats", "benefit",
		"boom", "boost", "breakout", "bullish", "climb", "climbs",
		"competitive", "enhance", "excellent", "exceptional", "favorable",
		"gain", "gains", "good", "great", "grew", "growth", "improve",
		"improved", "improvement", "jump", "jumps", "leader", "leading",
		"opportunity", "optimistic", "outperform", "positive", "profit",
		"profitable", "progress", "prosper", "rally", "rallies", "rebound",
		"record", "recover", "recovery", "remarkable", "rise", "rises",
		"robust", "soar", "soars", "solid", "strength", "strong", "succeed",
		"success", "successful", "surge", "surges", "surpass", "tremendous",
		"upbeat", "upside", "uptrend", "valuable", "win", "winning",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"adverse", "bearish", "challenge", "challenging", "collapse",
		"concern", "concerns", "crash", "crisis", "damage", "debt",
		"decline", "declines", "decrease", "deficit", "deteriorate",
		"difficult", "disappoint", "disappointing", "downgrade", "downside",
		"downturn", "drop", "drops", "erode", "fail", "failure", "fall",
		"falling", "falls", "fear", "fears", "headwind", "inflation",
		"loss", "losses", "negative", "panic", "plunge", "plunges", "poor",
		"problem", "recession", "risk", "risks", "selloff", "sink", "sinks",
		"slide", "slides", "slow", "slowdown", "slump", "slumps", "tumble",
		"tumbles", "turmoil", "uncertain", "uncertainty", "underperform",
		"unfavorable", "volatile", "volatility", "weak", "weakness",
		"worse", "worsen", "worst",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadUncertaintyWords() map[string]bool {
	words := []string{
		"almost", "anticipate", "anticipates", "appear", "appears",
		"approximately", "assume", "assumes", "believe", "believes",
		"could", "depend", "depending", "estimate", "estimates", "expect",
		"expects", "forecast", "forecasts", "if", "intend", "intends",
		"likely", "may", "maybe", "might", "outlook", "pending", "perhaps",
		"possible", "possibly", "potential", "predict", "predicts",
		"project", "projects", "should", "somewhat", "suggest", "suggests",
		"unclear", "unlikely", "would",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}
