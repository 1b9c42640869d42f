package provider

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

var commoditySymbols = map[string]string{
	"gold":        "GC=F",
	"silver":      "SI=F",
	"wti_crude":   "CL=F",
	"brent_crude": "BZ=F",
	"natural_gas": "NG=F",
	"copper":      "HG=F",
}

// CommoditiesFetcher pulls commodity futures from the quote gateway.
type CommoditiesFetcher struct {
	q *quotesAPI
}

func NewCommoditiesFetcher(cfg Config) *CommoditiesFetcher {
	return &CommoditiesFetcher{q: newQuotesAPI("quotes", cfg)}
}

func (f *CommoditiesFetcher) Domain() models.Domain  { return models.DomainCommodities }
func (f *CommoditiesFetcher) Timeout() time.Duration { return f.q.timeout }

func (f *CommoditiesFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	// 6 quotes + gold history
	if ferr := f.q.reserve(len(commoditySymbols) + 1); ferr != nil {
		return nil, nil, ferr
	}

	quotes, failed, err := f.q.quoteSet(ctx, commoditySymbols)
	if err != nil {
		return nil, nil, Classify("quotes", err)
	}

	payload := &models.CommoditiesPayload{
		Gold:       quotes["gold"],
		Silver:     quotes["silver"],
		WTICrude:   quotes["wti_crude"],
		BrentCrude: quotes["brent_crude"],
		NaturalGas: quotes["natural_gas"],
		Copper:     quotes["copper"],
	}

	closes, err := f.q.closes(ctx, commoditySymbols["gold"], historyDays)
	if err != nil {
		failed = append(failed, "gold_history")
	} else {
		payload.GoldCloses = closes
	}

	return payload, failed, nil
}
