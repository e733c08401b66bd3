package types

import "time"

// Sentiment is the three-way label derived from a compound lexicon score.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// Trend is the binary directional signal from comparing two price points.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
)

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RawArticle is a candidate article as delivered by a news adapter, before
// filtering and classification. Instrument carries the canonical key the
// adapter queried for; the filter still has to confirm the match.
type RawArticle struct {
	Source      string `json:"source"`
	Instrument  string `json:"instrument"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// NewsItem is an accepted, classified article. Instrument is always a
// canonical key.
type NewsItem struct {
	Source      string    `json:"source"`
	Instrument  string    `json:"instrument"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt string    `json:"published_at"`
	Sentiment   Sentiment `json:"sentiment"`
}

// PriceQuote is the single canonical price per instrument per cycle.
type PriceQuote struct {
	Instrument string    `json:"instrument"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

// PriceSample is a raw feed observation: the current price plus, when the
// feed carries history, the prior close. Spot-only feeds set Previous equal
// to Current with HasPrevious true, which deterministically reads as Bearish
// downstream. Feeds that should have history but delivered a single point
// leave HasPrevious false and the instrument is excluded from trends.
type PriceSample struct {
	Current     float64
	Previous    float64
	HasPrevious bool
}

type TrendPrediction struct {
	Instrument string  `json:"instrument"`
	Trend      Trend   `json:"trend"`
	Confidence float64 `json:"confidence"`
}

type RiskFinding struct {
	Instrument string    `json:"instrument"`
	Level      RiskLevel `json:"risk_level"`
	Reason     string    `json:"risk_reason"`
}

type TradeRecommendation struct {
	Instrument string  `json:"instrument"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// MacroIndicator is an independent side-channel record with no coupling
// to the instrument pipeline.
type MacroIndicator struct {
	Name    string `json:"indicator"`
	Value   string `json:"value"`
	Unit    string `json:"unit"`
	Country string `json:"country"`
	Source  string `json:"source"`
}

type MacroEvent struct {
	Name   string    `json:"event_name"`
	Date   time.Time `json:"event_date"`
	Source string    `json:"source"`
}
