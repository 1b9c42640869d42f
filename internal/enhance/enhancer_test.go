package enhance

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/logger"
)

type stubGenerator struct {
	out string
	err error
}

func (s stubGenerator) Name() string { return "stub" }
func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.out, s.err
}

func testReport() *models.Report {
	return &models.Report{
		ID:    "RPT-20250601120000-test01",
		Level: models.LevelStandard,
		Meta:  map[string]string{},
		Sections: []models.Section{
			{Name: "pulse", Title: "Market Pulse", Body: "Regime reads goldilocks.", Narrative: true},
			{Name: "macro", Title: "Macro Environment", Rows: [][]string{{"Indicator", "Value"}, {"CPI YoY", "2.90%"}}},
			{Name: "forward", Title: "Forward Watch", Body: "Watch breadth.", Narrative: true},
		},
	}
}

func enhanceWith(t *testing.T, gen Generator, rpt *models.Report) {
	t.Helper()
	e := NewEnhancer(NewRegistry(Keys{}, time.Minute), logger.Nop(), nil, time.Minute)
	if err := e.enhanceWith(context.Background(), rpt, gen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnhanceRewritesNarrativeOnly(t *testing.T) {
	rpt := testReport()
	enhanceWith(t, stubGenerator{out: "Polished prose."}, rpt)

	if rpt.Sections[0].Body != "Polished prose." {
		t.Fatalf("narrative section not rewritten: %q", rpt.Sections[0].Body)
	}
	if rpt.Sections[2].Body != "Polished prose." {
		t.Fatalf("second narrative section not rewritten")
	}
	if len(rpt.Sections[1].Rows) != 2 || rpt.Sections[1].Rows[1][1] != "2.90%" {
		t.Fatalf("tabular section must pass through untouched")
	}
	if rpt.Degraded {
		t.Fatalf("successful enhancement must not degrade the report")
	}
}

func TestEnhanceFailureDegradesNotFails(t *testing.T) {
	rpt := testReport()
	enhanceWith(t, stubGenerator{err: errors.New("provider down")}, rpt)

	if !rpt.Degraded {
		t.Fatalf("failed enhancement must mark the report degraded")
	}
	if rpt.Sections[0].Body != "Regime reads goldilocks." {
		t.Fatalf("original text must be kept on failure")
	}
	if rpt.Meta["enhancement"] != "failed" {
		t.Fatalf("expected enhancement=failed meta, got %q", rpt.Meta["enhancement"])
	}
}

type flakyGenerator struct {
	calls int
}

func (f *flakyGenerator) Name() string { return "flaky" }
func (f *flakyGenerator) Generate(context.Context, string) (string, error) {
	f.calls++
	if f.calls == 1 {
		return "Polished prose.", nil
	}
	return "", errors.New("provider down")
}

func TestEnhanceMidStreamFailureLeavesReportUnchanged(t *testing.T) {
	rpt := testReport()
	enhanceWith(t, &flakyGenerator{}, rpt)

	if !rpt.Degraded {
		t.Fatalf("failed enhancement must mark the report degraded")
	}
	if rpt.Sections[0].Body != "Regime reads goldilocks." {
		t.Fatalf("earlier sections must be restored on a later failure: %q", rpt.Sections[0].Body)
	}
	if rpt.Sections[2].Body != "Watch breadth." {
		t.Fatalf("failed section must keep original text")
	}
}

func TestEnhanceUnknownProvider(t *testing.T) {
	e := NewEnhancer(NewRegistry(Keys{}, time.Minute), logger.Nop(), nil, time.Minute)
	if err := e.Enhance(context.Background(), testReport(), "nope", ""); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestEnhanceUnconfiguredProvider(t *testing.T) {
	e := NewEnhancer(NewRegistry(Keys{}, time.Minute), logger.Nop(), nil, time.Minute)
	if err := e.Enhance(context.Background(), testReport(), "openai", ""); err == nil {
		t.Fatalf("expected error when key is missing")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry(Keys{Gemini: "key", OllamaBaseURL: "http://localhost:11434"}, time.Minute)
	infos := r.List()
	if len(infos) != 4 {
		t.Fatalf("expected 4 providers, got %d", len(infos))
	}
	byName := map[string]ProviderInfo{}
	for _, p := range infos {
		byName[p.Name] = p
	}
	if !byName["gemini"].Available || byName["openai"].Available {
		t.Fatalf("availability must follow configured keys: %+v", byName)
	}
	if byName["ollama"].NeedsKey {
		t.Fatalf("ollama must not require a key")
	}
	if !byName["ollama"].Available {
		t.Fatalf("ollama with base url must be available")
	}
}
