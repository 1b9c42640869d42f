package provider

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

var fxSymbols = map[string]string{
	"dxy":    "DX-Y.NYB",
	"eurusd": "EURUSD=X",
	"usdjpy": "USDJPY=X",
	"gbpusd": "GBPUSD=X",
	"audusd": "AUDUSD=X",
	"usdcad": "USDCAD=X",
	"usdchf": "USDCHF=X",
}

// Pairs quoted with USD as the base currency; a rising price means a
// strengthening dollar. The remaining pairs invert.
var usdBasePairs = map[string]bool{
	"dxy":    true,
	"usdjpy": true,
	"usdcad": true,
	"usdchf": true,
}

// FXFetcher pulls major currency pairs from the quote gateway.
type FXFetcher struct {
	q *quotesAPI
}

func NewFXFetcher(cfg Config) *FXFetcher {
	return &FXFetcher{q: newQuotesAPI("quotes", cfg)}
}

func (f *FXFetcher) Domain() models.Domain  { return models.DomainFX }
func (f *FXFetcher) Timeout() time.Duration { return f.q.timeout }

func (f *FXFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	// 7 quotes + eurusd history
	if ferr := f.q.reserve(len(fxSymbols) + 1); ferr != nil {
		return nil, nil, ferr
	}

	quotes, failed, err := f.q.quoteSet(ctx, fxSymbols)
	if err != nil {
		return nil, nil, Classify("quotes", err)
	}

	payload := &models.FXPayload{
		DXY:    quotes["dxy"],
		EURUSD: quotes["eurusd"],
		USDJPY: quotes["usdjpy"],
		GBPUSD: quotes["gbpusd"],
		AUDUSD: quotes["audusd"],
		USDCAD: quotes["usdcad"],
		USDCHF: quotes["usdchf"],
	}
	payload.USDBias = usdBias(quotes)

	closes, err := f.q.closes(ctx, fxSymbols["eurusd"], historyDays)
	if err != nil {
		failed = append(failed, "eurusd_history")
	} else {
		payload.EURUSDCloses = closes
	}

	return payload, failed, nil
}

// usdBias tallies the day's moves across majors. A two-pair margin in
// either direction calls the bias; anything closer is mixed.
func usdBias(quotes map[string]*models.Quote) string {
	stronger, weaker := 0, 0
	for item, q := range quotes {
		if q == nil || q.ChangePct == 0 {
			continue
		}
		up := q.ChangePct > 0
		if !usdBasePairs[item] {
			up = !up
		}
		if up {
			stronger++
		} else {
			weaker++
		}
	}
	switch {
	case stronger-weaker >= 2:
		return "strengthening"
	case weaker-stronger >= 2:
		return "weakening"
	default:
		return "mixed"
	}
}
