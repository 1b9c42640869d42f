package provider

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	xhttp "MarketPulse/pkg/http"
)

// Config holds the settings shared by all live adapters.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RatePerMin int
}

// api bundles the HTTP client and rate budget for one upstream.
type api struct {
	name    string
	baseURL string
	apiKey  string
	http    *xhttp.Client
	limiter *rate.Limiter
	timeout time.Duration
}

func newAPI(name string, cfg Config) *api {
	var limiter *rate.Limiter
	if cfg.RatePerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMin)/60.0), cfg.RatePerMin)
	}
	return &api{
		name:    name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: limiter,
		timeout: cfg.Timeout,
	}
}

// reserve claims n request tokens from the provider's budget. A denied
// claim fails the whole domain fetch as rate_limited; there is no
// in-request waiting.
func (a *api) reserve(n int) *FetchError {
	if a.limiter == nil {
		return nil
	}
	if !a.limiter.AllowN(time.Now(), n) {
		return &FetchError{Provider: a.name, Kind: KindRateLimited, Err: errors.New("request budget exhausted")}
	}
	return nil
}

func (a *api) getJSON(ctx context.Context, url string, query map[string][]string, dest interface{}) error {
	return a.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: query,
	}, dest)
}
