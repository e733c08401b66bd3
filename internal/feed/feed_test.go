package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewsAPIFetchArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "XAUUSD" {
			t.Errorf("query q = %q, want XAUUSD", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("query page = %q, want 2", got)
		}
		w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"Reuters"},"title":"Gold climbs","description":"Markets rally","url":"https://example.com/a","publishedAt":"2025-03-10T08:00:00Z"},
			{"source":{"name":""},"title":"Gold dips","description":"","url":"https://example.com/b","publishedAt":"2025-03-10T09:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("test-key", 5).WithBaseURL(srv.URL)
	articles, err := c.FetchArticles(context.Background(), "gold", "XAUUSD", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Source != "Reuters" || articles[0].Instrument != "gold" {
		t.Errorf("article[0] = %+v", articles[0])
	}
	if articles[1].Source != "NewsAPI" {
		t.Errorf("empty source name should default to NewsAPI, got %q", articles[1].Source)
	}
}

func TestNewsAPIRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewNewsAPIClient("test-key", 5).WithBaseURL(srv.URL)
	_, err := c.FetchArticles(context.Background(), "gold", "XAUUSD", 1)

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("err = %v, want *RateLimitError", err)
	}
	if rle.RetryAfter != 2*time.Minute {
		t.Errorf("RetryAfter = %v, want 2m from header", rle.RetryAfter)
	}
}

func TestNewsAPIRateLimitDefaultBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewNewsAPIClient("test-key", 5).WithBaseURL(srv.URL)
	_, err := c.FetchArticles(context.Background(), "gold", "XAUUSD", 1)

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("err = %v, want *RateLimitError", err)
	}
	if rle.RetryAfter != newsAPIDefaultBackoff {
		t.Errorf("RetryAfter = %v, want default %v", rle.RetryAfter, newsAPIDefaultBackoff)
	}
}

func TestMetalsFetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbols"); got != "USDXAU" {
			t.Errorf("symbols = %q, want USDXAU", got)
		}
		w.Write([]byte(`{"success":true,"rates":{"USDXAU":2315.4567,"USD":1}}`))
	}))
	defer srv.Close()

	c := NewMetalsClient("test-key").WithBaseURL(srv.URL)
	rates, err := c.FetchRates(context.Background(), []string{"USDXAU"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 1 {
		t.Fatalf("got %d rates, want 1 (only requested codes)", len(rates))
	}
	if rates["USDXAU"] != 2315.4567 {
		t.Errorf("rate = %v, want 2315.4567", rates["USDXAU"])
	}
}

func TestMetalsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":{"code":101,"info":"invalid access key"}}`))
	}))
	defer srv.Close()

	c := NewMetalsClient("bad-key").WithBaseURL(srv.URL)
	if _, err := c.FetchRates(context.Background(), []string{"USDXAU"}); err == nil {
		t.Fatal("expected error for unsuccessful response")
	}
}

func TestYahooFetchSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1,2,3],
			"indicators":{"quote":[{"close":[63950.5,null,64123.25]}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewYahooClient().WithBaseURL(srv.URL)
	sample, err := c.FetchSample(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatal(err)
	}
	if sample.Current != 64123.25 {
		t.Errorf("current = %v, want 64123.25", sample.Current)
	}
	if !sample.HasPrevious || sample.Previous != 63950.5 {
		t.Errorf("previous = (%v, %v), want (63950.5, true); null bars must be skipped",
			sample.Previous, sample.HasPrevious)
	}
}

func TestYahooSingleCloseHasNoPrevious(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1],
			"indicators":{"quote":[{"close":[17000.0]}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewYahooClient().WithBaseURL(srv.URL)
	sample, err := c.FetchSample(context.Background(), "^IXIC")
	if err != nil {
		t.Fatal(err)
	}
	if sample.HasPrevious {
		t.Error("single close must not claim a previous observation")
	}
}

func TestYahooPartialCoverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/BAD" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1,2],
			"indicators":{"quote":[{"close":[100.0,101.0]}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewYahooClient().WithBaseURL(srv.URL)
	samples, err := c.FetchSamples(context.Background(), []string{"GOOD", "BAD"})
	if err == nil {
		t.Error("expected the first symbol error to be reported")
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1 (failed symbol omitted)", len(samples))
	}
	if _, ok := samples["GOOD"]; !ok {
		t.Error("GOOD symbol missing from partial result")
	}
}
