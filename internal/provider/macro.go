package provider

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

// Macro series identifiers on the upstream series API. Each series is
// one sub-item of the macro snapshot.
var macroSeries = map[string]string{
	"cpi_yoy":      "CPIYOY",
	"core_pce_yoy": "PCEPILFEYOY",
	"gdp_growth":   "GDPC1YOY",
	"unemployment": "UNRATE",
	"fed_funds":    "FEDFUNDS",
	"treasury_2y":  "DGS2",
	"treasury_10y": "DGS10",
	"hy_spread":    "BAMLH0A0HYM2",
}

// MacroFetcher pulls macroeconomic series from an economic data API.
type MacroFetcher struct {
	api *api
}

func NewMacroFetcher(cfg Config) *MacroFetcher {
	return &MacroFetcher{api: newAPI("series", cfg)}
}

func (f *MacroFetcher) Domain() models.Domain  { return models.DomainMacro }
func (f *MacroFetcher) Timeout() time.Duration { return f.api.timeout }

func (f *MacroFetcher) HealthCheck(ctx context.Context) error {
	var resp seriesResponse
	return f.api.getJSON(ctx, f.api.baseURL+"/series/observations", map[string][]string{
		"series_id": {"UNRATE"},
		"api_key":   {f.api.apiKey},
		"limit":     {"1"},
	}, &resp)
}

type seriesResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (f *MacroFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	if ferr := f.api.reserve(len(macroSeries)); ferr != nil {
		return nil, nil, ferr
	}

	type result struct {
		item  string
		value float64
		err   error
	}

	results := make(chan result, len(macroSeries))
	var wg sync.WaitGroup
	for item, id := range macroSeries {
		wg.Add(1)
		go func(item, id string) {
			defer wg.Done()
			v, err := f.latest(ctx, id)
			results <- result{item: item, value: v, err: err}
		}(item, id)
	}
	wg.Wait()
	close(results)

	payload := &models.MacroPayload{}
	var failed []string
	var firstErr error
	for r := range results {
		if r.err != nil {
			failed = append(failed, r.item)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		v := r.value
		switch r.item {
		case "cpi_yoy":
			payload.CPIYoY = &v
		case "core_pce_yoy":
			payload.CorePCEYoY = &v
		case "gdp_growth":
			payload.GDPGrowth = &v
		case "unemployment":
			payload.Unemployment = &v
		case "fed_funds":
			payload.FedFunds = &v
		case "treasury_2y":
			payload.Treasury2Y = &v
		case "treasury_10y":
			payload.Treasury10Y = &v
		case "hy_spread":
			payload.HYSpread = &v
		}
	}

	if len(failed) == len(macroSeries) {
		return nil, nil, Classify("series", firstErr)
	}

	if payload.Treasury2Y != nil && payload.Treasury10Y != nil {
		spread := *payload.Treasury10Y - *payload.Treasury2Y
		payload.Spread2s10s = &spread
	}
	return payload, failed, nil
}

// latest returns the most recent usable observation for a series.
// Upstream marks missing data points with "." so a few observations are
// requested and the newest valid one wins.
func (f *MacroFetcher) latest(ctx context.Context, id string) (float64, error) {
	var resp seriesResponse
	err := f.api.getJSON(ctx, f.api.baseURL+"/series/observations", map[string][]string{
		"series_id":  {id},
		"api_key":    {f.api.apiKey},
		"file_type":  {"json"},
		"sort_order": {"desc"},
		"limit":      {"4"},
	}, &resp)
	if err != nil {
		return 0, err
	}
	for _, obs := range resp.Observations {
		if _, ok := util.ParseTime(obs.Date); !ok {
			continue
		}
		v, perr := strconv.ParseFloat(obs.Value, 64)
		if perr != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("series %s: no usable observations", id)
}
