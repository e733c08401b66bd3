package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"market-signal-bot/internal/types"
)

// YahooClient fetches quotes from the Yahoo Finance chart API. It is the
// generic feed covering equities, indices, crypto and FX, and the only one
// that also supplies the trend look-back (the prior daily close).
type YahooClient struct {
	client  *http.Client
	baseURL string
}

func NewYahooClient() *YahooClient {
	return &YahooClient{
		client:  newHTTPClient(0),
		baseURL: "https://query1.finance.yahoo.com",
	}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *YahooClient) WithBaseURL(base string) *YahooClient {
	c.baseURL = base
	return c
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []any `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSample returns the latest close plus the prior one for a ticker.
// With only one usable close, HasPrevious stays false and the instrument
// will be excluded from trend prediction downstream.
func (c *YahooClient) FetchSample(ctx context.Context, symbol string) (types.PriceSample, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return types.PriceSample{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.PriceSample{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return types.PriceSample{}, &RateLimitError{Provider: "yahoo", RetryAfter: retryAfter(resp, 5 * time.Minute)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.PriceSample{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.PriceSample{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, body)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return types.PriceSample{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return types.PriceSample{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return types.PriceSample{}, fmt.Errorf("yahoo: no data for %s", symbol)
	}

	closes := make([]float64, 0, 5)
	for _, raw := range chart.Chart.Result[0].Indicators.Quote[0].Close {
		if v := toFloat(raw); v != 0 {
			closes = append(closes, v) // null bars (holidays etc.) are skipped
		}
	}
	if len(closes) == 0 {
		return types.PriceSample{}, fmt.Errorf("yahoo: no usable closes for %s", symbol)
	}

	sample := types.PriceSample{Current: closes[len(closes)-1]}
	if len(closes) >= 2 {
		sample.Previous = closes[len(closes)-2]
		sample.HasPrevious = true
	}
	return sample, nil
}

// FetchSamples fetches each symbol independently; a failed symbol is
// omitted so the cycle proceeds with partial coverage. The first error is
// returned for logging alongside whatever succeeded.
func (c *YahooClient) FetchSamples(ctx context.Context, symbols []string) (map[string]types.PriceSample, error) {
	out := make(map[string]types.PriceSample, len(symbols))
	var firstErr error
	for _, symbol := range symbols {
		sample, err := c.FetchSample(ctx, symbol)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", symbol, err)
			}
			continue
		}
		out[symbol] = sample
	}
	return out, firstErr
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
