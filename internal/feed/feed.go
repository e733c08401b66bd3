// Package feed holds the HTTP adapters for the third-party market data
// providers. Adapters never block on rate limits; they surface a
// RateLimitError carrying the retry delay and leave rescheduling to the
// caller.
package feed

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimitError reports that a provider asked us to back off. RetryAfter
// is the delay the provider requested, or a provider-specific default.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
}

// retryAfter reads the Retry-After header (seconds form) with a fallback.
func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
