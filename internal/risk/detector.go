package risk

import (
	"strings"

	"market-signal-bot/internal/types"
)

// Phrase pairs a literal risk phrase with the level it signals. The slice
// order of a phrase list is authoritative for detection.
type Phrase struct {
	Text  string          `yaml:"text"`
	Level types.RiskLevel `yaml:"level"`
}

// DefaultPhrases is the built-in ordered phrase list. Order encodes policy:
// a phrase earlier in the list wins over any later phrase regardless of
// where either occurs in the text or how severe it is.
func DefaultPhrases() []Phrase {
	return []Phrase{
		{Text: "market crash", Level: types.RiskHigh},
		{Text: "recession", Level: types.RiskHigh},
		{Text: "economic downturn", Level: types.RiskHigh},
		{Text: "inflation", Level: types.RiskMedium},
		{Text: "regulation", Level: types.RiskMedium},
		{Text: "interest rate hike", Level: types.RiskMedium},
		{Text: "volatility", Level: types.RiskLow},
		{Text: "uncertainty", Level: types.RiskLow},
	}
}

// Detect scans the filtered news per instrument and reports at most one
// finding per instrument: the first phrase in list order found anywhere in
// that instrument's combined article text. Matching is case-insensitive
// substring containment with no tokenization or negation handling; a risk
// phrase inside an unrelated sentence still matches, which is accepted
// imprecision for this stage.
func Detect(items []types.NewsItem, phrases []Phrase) map[string]types.RiskFinding {
	texts := make(map[string]*strings.Builder)
	order := []string{}
	for _, item := range items {
		b, ok := texts[item.Instrument]
		if !ok {
			b = &strings.Builder{}
			texts[item.Instrument] = b
			order = append(order, item.Instrument)
		}
		b.WriteString(strings.ToLower(item.Title))
		b.WriteString(" ")
		b.WriteString(strings.ToLower(item.Description))
		b.WriteString(" ")
	}

	findings := make(map[string]types.RiskFinding)
	for _, key := range order {
		text := texts[key].String()
		for _, p := range phrases {
			if strings.Contains(text, strings.ToLower(p.Text)) {
				findings[key] = types.RiskFinding{
					Instrument: key,
					Level:      p.Level,
					Reason:     p.Text,
				}
				break
			}
		}
	}
	return findings
}
