package risk

import (
	"testing"

	"market-signal-bot/internal/types"
)

func TestListOrderWinsOverTextPosition(t *testing.T) {
	phrases := []Phrase{
		{Text: "recession", Level: types.RiskHigh},
		{Text: "inflation", Level: types.RiskMedium},
	}
	items := []types.NewsItem{
		{Instrument: "gold", Title: "Inflation fears trigger recession talk", Description: ""},
	}

	findings := Detect(items, phrases)
	f, ok := findings["gold"]
	if !ok {
		t.Fatal("expected a finding for gold")
	}
	// "inflation" occurs first in the text, but "recession" is first in
	// the list; list order is authoritative.
	if f.Reason != "recession" {
		t.Errorf("reason = %q, want %q", f.Reason, "recession")
	}
	if f.Level != types.RiskHigh {
		t.Errorf("level = %v, want High", f.Level)
	}
}

func TestAtMostOneFindingPerInstrument(t *testing.T) {
	items := []types.NewsItem{
		{Instrument: "bitcoin", Title: "Volatility spikes", Description: "Crypto markets in turmoil"},
		{Instrument: "bitcoin", Title: "New regulation proposed", Description: ""},
		{Instrument: "nasdaq", Title: "Calm session on Wall Street", Description: ""},
	}

	findings := Detect(items, DefaultPhrases())
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings["bitcoin"]
	// "regulation" (Medium) precedes "volatility" (Low) in the default
	// list, so it wins even though volatility appears in the first article.
	if f.Reason != "regulation" {
		t.Errorf("reason = %q, want %q", f.Reason, "regulation")
	}
}

func TestNoMatchNoFinding(t *testing.T) {
	items := []types.NewsItem{
		{Instrument: "ethereum", Title: "Upgrade ships on schedule", Description: "Validators unaffected"},
	}
	findings := Detect(items, DefaultPhrases())
	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0", len(findings))
	}
}

func TestMatchingIsCaseInsensitive(t *testing.T) {
	items := []types.NewsItem{
		{Instrument: "gold", Title: "RECESSION WATCH", Description: ""},
	}
	findings := Detect(items, DefaultPhrases())
	if _, ok := findings["gold"]; !ok {
		t.Error("uppercase text should still match")
	}
}
