package report

import (
	"strings"
	"testing"

	"MarketPulse/internal/domain/models"
)

func TestTechnicalsSectionVolatilityAssessment(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 5000 + float64(i)
	}
	snapshots := map[models.Domain]models.Snapshot{
		models.DomainEquities: {
			Domain: models.DomainEquities,
			Payload: &models.EquitiesPayload{
				SPX:     &models.Quote{Symbol: "^GSPC", Name: "S&P 500", Price: 5060, DayHigh: 5080, DayLow: 5020},
				VIX:     &models.Quote{Symbol: "^VIX", Name: "VIX", Price: 28.5},
				History: models.EquityHistory{SPX: closes},
			},
		},
	}

	sec := technicalsSection(snapshots)
	if !strings.Contains(sec.Body, "VIX at 28.5") {
		t.Fatalf("expected VIX level in body, got %q", sec.Body)
	}
	if !strings.Contains(sec.Body, "elevated volatility") {
		t.Fatalf("expected volatility assessment in body, got %q", sec.Body)
	}
	if !strings.Contains(sec.Body, "pivot") {
		t.Fatalf("pivot line must survive next to the assessment, got %q", sec.Body)
	}
}

func TestCorrelationsSectionUndefinedPairRendersDash(t *testing.T) {
	varied := make([]float64, 20)
	for i := range varied {
		varied[i] = float64(i)
	}
	// Varies overall, but the aligned tail against varied is constant.
	flatTail := make([]float64, 30)
	for i := range flatTail {
		flatTail[i] = 1.1
	}
	flatTail[0] = 1.0

	snapshots := map[models.Domain]models.Snapshot{
		models.DomainEquities: {
			Domain:  models.DomainEquities,
			Payload: &models.EquitiesPayload{History: models.EquityHistory{SPX: varied}},
		},
		models.DomainFX: {
			Domain:  models.DomainFX,
			Payload: &models.FXPayload{EURUSDCloses: flatTail},
		},
	}

	sec := correlationsSection(snapshots)
	// labels sort to [eurusd, spx]: header row then one row per label
	if len(sec.Rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(sec.Rows))
	}
	if sec.Rows[1][2] != "-" || sec.Rows[2][1] != "-" {
		t.Fatalf("undefined pair must render as -, got %v", sec.Rows)
	}
	if sec.Rows[1][1] != "1.00" || sec.Rows[2][2] != "1.00" {
		t.Fatalf("diagonal must render 1.00, got %v", sec.Rows)
	}
}
