package provider

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

var equitySymbols = map[string]string{
	"spx":         "^GSPC",
	"nasdaq":      "^IXIC",
	"dow":         "^DJI",
	"russell2000": "^RUT",
	"vix":         "^VIX",
}

// historyDays covers the longest moving average window plus warmup.
const historyDays = 220

// EquitiesFetcher pulls index quotes, sector performance and close
// history from the quote gateway.
type EquitiesFetcher struct {
	q *quotesAPI
}

func NewEquitiesFetcher(cfg Config) *EquitiesFetcher {
	return &EquitiesFetcher{q: newQuotesAPI("quotes", cfg)}
}

func (f *EquitiesFetcher) Domain() models.Domain  { return models.DomainEquities }
func (f *EquitiesFetcher) Timeout() time.Duration { return f.q.timeout }

func (f *EquitiesFetcher) HealthCheck(ctx context.Context) error {
	_, err := f.q.quote(ctx, equitySymbols["spx"])
	return err
}

type sectorsDTO struct {
	Sectors []struct {
		Name      string  `json:"name"`
		ChangePct float64 `json:"change_pct"`
	} `json:"sectors"`
}

func (f *EquitiesFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	// 5 quotes + sectors + 3 history series
	if ferr := f.q.reserve(len(equitySymbols) + 4); ferr != nil {
		return nil, nil, ferr
	}

	quotes, failed, err := f.q.quoteSet(ctx, equitySymbols)
	if err != nil {
		return nil, nil, Classify("quotes", err)
	}

	payload := &models.EquitiesPayload{
		SPX:         quotes["spx"],
		Nasdaq:      quotes["nasdaq"],
		Dow:         quotes["dow"],
		Russell2000: quotes["russell2000"],
		VIX:         quotes["vix"],
	}

	var sectors sectorsDTO
	if err := f.q.getJSON(ctx, f.q.baseURL+"/sectors", map[string][]string{
		"apikey": {f.q.apiKey},
	}, &sectors); err != nil {
		failed = append(failed, "sectors")
	} else {
		for _, s := range sectors.Sectors {
			payload.Sectors = append(payload.Sectors, models.SectorPerf{
				Sector:    s.Name,
				ChangePct: s.ChangePct,
			})
		}
	}

	for _, h := range []struct {
		item   string
		symbol string
		dest   *[]float64
	}{
		{"spx_history", "^GSPC", &payload.History.SPX},
		{"nasdaq_history", "^IXIC", &payload.History.Nasdaq},
		{"vix_history", "^VIX", &payload.History.VIX},
	} {
		closes, err := f.q.closes(ctx, h.symbol, historyDays)
		if err != nil {
			failed = append(failed, h.item)
			continue
		}
		*h.dest = closes
	}

	return payload, failed, nil
}
