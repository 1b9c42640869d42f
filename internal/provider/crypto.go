package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
)

var cryptoIDs = []string{"bitcoin", "ethereum", "solana"}

// CryptoFetcher pulls crypto market data from a coingecko-compatible
// gateway, plus the fear/greed index.
type CryptoFetcher struct {
	api *api
}

func NewCryptoFetcher(cfg Config) *CryptoFetcher {
	return &CryptoFetcher{api: newAPI("crypto", cfg)}
}

func (f *CryptoFetcher) Domain() models.Domain  { return models.DomainCrypto }
func (f *CryptoFetcher) Timeout() time.Duration { return f.api.timeout }

type coinDTO struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Price        float64 `json:"current_price"`
	ChangePct24h float64 `json:"price_change_percentage_24h"`
	MarketCap    float64 `json:"market_cap"`
	Volume24h    float64 `json:"total_volume"`
}

type globalDTO struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

type fearGreedDTO struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

type marketChartDTO struct {
	Prices [][]float64 `json:"prices"`
}

func (f *CryptoFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	// markets + global + fear/greed + btc chart
	if ferr := f.api.reserve(4); ferr != nil {
		return nil, nil, ferr
	}

	var coins []coinDTO
	err := f.api.getJSON(ctx, f.api.baseURL+"/coins/markets", map[string][]string{
		"vs_currency": {"usd"},
		"ids":         {strings.Join(cryptoIDs, ",")},
	}, &coins)
	if err != nil {
		return nil, nil, Classify("crypto", err)
	}
	if len(coins) == 0 {
		return nil, nil, Malformed("crypto", fmt.Errorf("empty markets response"))
	}

	payload := &models.CryptoPayload{}
	var failed []string
	byID := make(map[string]coinDTO, len(coins))
	for _, c := range coins {
		byID[c.ID] = c
	}
	for _, id := range cryptoIDs {
		c, ok := byID[id]
		if !ok {
			failed = append(failed, id)
			continue
		}
		q := &models.CryptoQuote{
			Symbol:       strings.ToUpper(c.Symbol),
			Name:         c.Name,
			PriceUSD:     c.Price,
			ChangePct24h: c.ChangePct24h,
			MarketCap:    c.MarketCap,
			Volume24h:    c.Volume24h,
		}
		switch id {
		case "bitcoin":
			payload.Bitcoin = q
		case "ethereum":
			payload.Ethereum = q
		case "solana":
			payload.Solana = q
		}
	}

	var global globalDTO
	if err := f.api.getJSON(ctx, f.api.baseURL+"/global", nil, &global); err != nil {
		failed = append(failed, "global")
	} else {
		payload.TotalMarketCap = global.Data.TotalMarketCap["usd"]
		payload.BTCDominance = global.Data.MarketCapPercentage["btc"]
	}

	var fng fearGreedDTO
	if err := f.api.getJSON(ctx, f.api.baseURL+"/fear-greed", map[string][]string{
		"limit": {"1"},
	}, &fng); err != nil || len(fng.Data) == 0 {
		failed = append(failed, "fear_greed")
	} else {
		v, perr := strconv.Atoi(fng.Data[0].Value)
		if perr != nil {
			failed = append(failed, "fear_greed")
		} else {
			payload.FearGreed = v
			payload.FearGreedLabel = fng.Data[0].Classification
		}
	}

	var chart marketChartDTO
	if err := f.api.getJSON(ctx, f.api.baseURL+"/coins/bitcoin/market_chart", map[string][]string{
		"vs_currency": {"usd"},
		"days":        {"30"},
		"interval":    {"daily"},
	}, &chart); err != nil || len(chart.Prices) == 0 {
		failed = append(failed, "bitcoin_history")
	} else {
		closes := make([]float64, 0, len(chart.Prices))
		for _, p := range chart.Prices {
			if len(p) == 2 {
				closes = append(closes, p[1])
			}
		}
		payload.BitcoinCloses = closes
	}

	return payload, failed, nil
}
