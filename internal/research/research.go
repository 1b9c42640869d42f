package research

import (
	"context"
	"fmt"
	"time"

	xhttp "MarketPulse/pkg/http"
)

// Result is one retrieved research reference.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher retrieves supporting references for a report topic.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Client queries a metasearch collaborator (searxng-compatible JSON API).
type Client struct {
	baseURL string
	http    *xhttp.Client
	limit   int
}

// NewClient creates a research search client.
func NewClient(baseURL string, timeout time.Duration, limit int) *Client {
	if limit <= 0 {
		limit = 5
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limit:   limit,
	}
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 || limit > c.limit {
		limit = c.limit
	}

	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/search",
		QueryParams: map[string][]string{
			"q":      {query},
			"format": {"json"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("research search: %w", err)
	}

	results := make([]Result, 0, limit)
	for _, r := range resp.Results {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
	}
	return results, nil
}
