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

const newsAPIDefaultBackoff = 10 * time.Minute

// NewsAPIClient queries the NewsAPI "everything" endpoint for articles
// matching an instrument's search keyword.
type NewsAPIClient struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	pageSize int
}

func NewNewsAPIClient(apiKey string, pageSize int) *NewsAPIClient {
	return &NewsAPIClient{
		client:   newHTTPClient(0),
		baseURL:  "https://newsapi.org",
		apiKey:   apiKey,
		pageSize: pageSize,
	}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *NewsAPIClient) WithBaseURL(base string) *NewsAPIClient {
	c.baseURL = base
	return c
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchArticles returns one page of candidate articles for a search
// keyword, tagged with the canonical key the query was made for. An HTTP
// 429 comes back as *RateLimitError so the scheduler can reschedule
// instead of this adapter sleeping.
func (c *NewsAPIClient) FetchArticles(ctx context.Context, instrumentKey, keyword string, page int) ([]types.RawArticle, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprint(c.pageSize))
	q.Set("page", fmt.Sprint(page))
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Provider: "newsapi", RetryAfter: retryAfter(resp, newsAPIDefaultBackoff)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: status %d, body: %s", resp.StatusCode, body)
	}

	var r newsAPIResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if r.Status != "ok" {
		return nil, fmt.Errorf("newsapi: response status %q", r.Status)
	}

	articles := make([]types.RawArticle, 0, len(r.Articles))
	for _, a := range r.Articles {
		source := a.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		articles = append(articles, types.RawArticle{
			Source:      source,
			Instrument:  instrumentKey,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
