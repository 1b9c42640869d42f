package provider

import (
	"context"
	"fmt"
	"sync"

	"MarketPulse/internal/domain/models"
)

// quotesAPI talks to the market quote gateway shared by the equities,
// fx and commodities adapters. Each adapter owns its own rate budget,
// so the gateway client is constructed per adapter, not shared.
type quotesAPI struct {
	*api
}

func newQuotesAPI(name string, cfg Config) *quotesAPI {
	return &quotesAPI{api: newAPI(name, cfg)}
}

type quoteDTO struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"previous_close"`
	Open      float64 `json:"open"`
	DayHigh   float64 `json:"day_high"`
	DayLow    float64 `json:"day_low"`
}

type closesDTO struct {
	Symbol string    `json:"symbol"`
	Closes []float64 `json:"closes"`
}

func (q *quotesAPI) quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var dto quoteDTO
	err := q.getJSON(ctx, q.baseURL+"/quote", map[string][]string{
		"symbol": {symbol},
		"apikey": {q.apiKey},
	}, &dto)
	if err != nil {
		return nil, err
	}
	if dto.Price <= 0 {
		return nil, fmt.Errorf("quote %s: non-positive price %v", symbol, dto.Price)
	}

	out := &models.Quote{
		Symbol:    dto.Symbol,
		Name:      dto.Name,
		Price:     dto.Price,
		PrevClose: dto.PrevClose,
		Open:      dto.Open,
		DayHigh:   dto.DayHigh,
		DayLow:    dto.DayLow,
	}
	if out.Symbol == "" {
		out.Symbol = symbol
	}
	if dto.PrevClose > 0 {
		out.Change = dto.Price - dto.PrevClose
		out.ChangePct = out.Change / dto.PrevClose * 100
	}
	return out, nil
}

// closes returns daily closes, oldest first.
func (q *quotesAPI) closes(ctx context.Context, symbol string, days int) ([]float64, error) {
	var dto closesDTO
	err := q.getJSON(ctx, q.baseURL+"/history", map[string][]string{
		"symbol": {symbol},
		"days":   {fmt.Sprintf("%d", days)},
		"apikey": {q.apiKey},
	}, &dto)
	if err != nil {
		return nil, err
	}
	if len(dto.Closes) == 0 {
		return nil, fmt.Errorf("history %s: empty series", symbol)
	}
	return dto.Closes, nil
}

// quoteSet fetches a symbol list concurrently. Returns one quote per
// requested item name, with failures listed separately.
func (q *quotesAPI) quoteSet(ctx context.Context, symbols map[string]string) (map[string]*models.Quote, []string, error) {
	type result struct {
		item  string
		quote *models.Quote
		err   error
	}

	results := make(chan result, len(symbols))
	var wg sync.WaitGroup
	for item, symbol := range symbols {
		wg.Add(1)
		go func(item, symbol string) {
			defer wg.Done()
			qt, err := q.quote(ctx, symbol)
			results <- result{item: item, quote: qt, err: err}
		}(item, symbol)
	}
	wg.Wait()
	close(results)

	quotes := make(map[string]*models.Quote, len(symbols))
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
		quotes[r.item] = r.quote
	}

	if len(failed) == len(symbols) {
		return nil, nil, firstErr
	}
	return quotes, failed, nil
}
