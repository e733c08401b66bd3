package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MetalsClient fetches spot rates from Metals-API. This is the specialized
// feed; the normalizer gives its prices precedence over the generic feed.
type MetalsClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewMetalsClient(apiKey string) *MetalsClient {
	return &MetalsClient{
		client:  newHTTPClient(0),
		baseURL: "https://metals-api.com",
		apiKey:  apiKey,
	}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *MetalsClient) WithBaseURL(base string) *MetalsClient {
	c.baseURL = base
	return c
}

type metalsResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// FetchRates returns USD spot prices keyed by the requested metal codes.
// Codes absent from the response are absent from the result.
func (c *MetalsClient) FetchRates(ctx context.Context, codes []string) (map[string]float64, error) {
	if len(codes) == 0 {
		return map[string]float64{}, nil
	}

	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("base", "USD")
	q.Set("symbols", strings.Join(codes, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/latest?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metals fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Provider: "metals-api", RetryAfter: retryAfter(resp, time.Hour)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("metals read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metals: status %d, body: %s", resp.StatusCode, body)
	}

	var r metalsResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("metals decode: %w", err)
	}
	if !r.Success {
		if r.Error != nil {
			return nil, fmt.Errorf("metals api error %d: %s", r.Error.Code, r.Error.Info)
		}
		return nil, fmt.Errorf("metals api: unsuccessful response")
	}

	rates := make(map[string]float64, len(codes))
	for _, code := range codes {
		if v, ok := r.Rates[code]; ok {
			rates[code] = v
		}
	}
	return rates, nil
}
