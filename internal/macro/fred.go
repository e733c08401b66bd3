// Package macro collects macroeconomic indicators and calendar events. It
// is an independent side channel: nothing here references the instrument
// pipeline and nothing there reads from here.
package macro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"market-signal-bot/internal/logger"
	"market-signal-bot/internal/types"
)

// fredSeries maps display labels to FRED series identifiers.
var fredSeries = []struct {
	Label    string
	SeriesID string
}{
	{"GDP Growth", "GDP"},
	{"Inflation Rate", "CPIAUCNS"},
	{"Unemployment Rate", "UNRATE"},
	{"Interest Rate (Fed)", "FEDFUNDS"},
	{"Retail Sales (MoM)", "RSXFS"},
	{"Industrial Production", "INDPRO"},
}

// FREDClient fetches the latest observation per tracked series from the
// St. Louis Fed API.
type FREDClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewFREDClient(apiKey string) *FREDClient {
	return &FREDClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.stlouisfed.org",
		apiKey:  apiKey,
	}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *FREDClient) WithBaseURL(base string) *FREDClient {
	c.baseURL = base
	return c
}

type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchIndicators returns one MacroIndicator per series that has data.
// A failed series is logged and skipped; the rest of the batch proceeds.
func (c *FREDClient) FetchIndicators(ctx context.Context) ([]types.MacroIndicator, error) {
	indicators := make([]types.MacroIndicator, 0, len(fredSeries))
	for _, s := range fredSeries {
		value, err := c.latestObservation(ctx, s.SeriesID)
		if err != nil {
			logger.Warn(ctx, "FRED series fetch failed", "series", s.SeriesID, "error", err)
			continue
		}
		indicators = append(indicators, types.MacroIndicator{
			Name:    s.Label,
			Value:   value,
			Unit:    "%",
			Country: "USA",
			Source:  "FRED API",
		})
	}
	return indicators, nil
}

func (c *FREDClient) latestObservation(ctx context.Context, seriesID string) (string, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fred/series/observations?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fred fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fred read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fred: status %d, body: %s", resp.StatusCode, body)
	}

	var r fredResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("fred decode: %w", err)
	}
	if len(r.Observations) == 0 {
		return "", fmt.Errorf("fred: no observations for %s", seriesID)
	}
	return r.Observations[len(r.Observations)-1].Value, nil
}
