package gateway

import (
	"context"
	"time"

	"market-signal-bot/internal/types"
)

// NoopGateway discards all writes. Used when no database path is configured.
type NoopGateway struct{}

func NewNoopGateway() *NoopGateway { return &NoopGateway{} }

func (n *NoopGateway) ReplaceNews(_ context.Context, _ []types.NewsItem, _ time.Time) error {
	return nil
}
func (n *NoopGateway) ReplacePrices(_ context.Context, _ []types.PriceQuote) error { return nil }
func (n *NoopGateway) ReplacePredictions(_ context.Context, _ []types.TrendPrediction, _ time.Time) error {
	return nil
}
func (n *NoopGateway) ReplaceRisks(_ context.Context, _ []types.RiskFinding, _ time.Time) error {
	return nil
}
func (n *NoopGateway) ReplaceRecommendations(_ context.Context, _ []types.TradeRecommendation, _ time.Time) error {
	return nil
}
func (n *NoopGateway) ReplaceMacroIndicators(_ context.Context, _ []types.MacroIndicator, _ time.Time) error {
	return nil
}
func (n *NoopGateway) ReplaceMacroEvents(_ context.Context, _ []types.MacroEvent, _ time.Time) error {
	return nil
}
func (n *NoopGateway) Close() error { return nil }
