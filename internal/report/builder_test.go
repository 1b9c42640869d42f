package report

import (
	"context"
	"reflect"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/provider"
	"MarketPulse/internal/research"
	"MarketPulse/pkg/logger"
)

type fakeSnapshotter struct {
	origin models.Origin
}

func (f *fakeSnapshotter) SnapshotAll(_ context.Context, domains []models.Domain, _ models.Source) (map[models.Domain]models.Snapshot, error) {
	mock := provider.NewMock()
	out := make(map[models.Domain]models.Snapshot, len(domains))
	for _, d := range domains {
		out[d] = models.Snapshot{
			Domain:    d,
			Origin:    f.origin,
			FetchedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Payload:   mock.Payload(d),
		}
	}
	return out, nil
}

type fakeSearcher struct{}

func (fakeSearcher) Search(context.Context, string, int) ([]research.Result, error) {
	return []research.Result{{Title: "Outlook", URL: "https://example.com/outlook"}}, nil
}

func testBuilder(s Snapshotter, opts ...Option) *Builder {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	base := []Option{
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func(t time.Time) string { return "RPT-20250601120000-test01" }),
	}
	return NewBuilder(s, logger.Nop(), append(base, opts...)...)
}

func buildCfg(level models.ReportLevel) models.ReportConfig {
	req := models.CreateReportRequest{Level: int(level), Format: "markdown", Source: "mock"}
	return req.Resolve()
}

func sectionNames(r *models.Report) []string {
	return r.SectionNames()
}

func TestBuildExecutiveSections(t *testing.T) {
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})
	rpt, err := b.Build(context.Background(), buildCfg(models.LevelExecutive))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{SectionPulse}
	if got := sectionNames(rpt); !reflect.DeepEqual(got, want) {
		t.Fatalf("executive sections: got %v, want %v", got, want)
	}
}

func TestBuildStandardSections(t *testing.T) {
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})
	rpt, err := b.Build(context.Background(), buildCfg(models.LevelStandard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{SectionPulse, SectionMacro, SectionAssets, SectionSentiment, SectionTechnicals}
	if got := sectionNames(rpt); !reflect.DeepEqual(got, want) {
		t.Fatalf("standard sections: got %v, want %v", got, want)
	}
}

func TestBuildDeepDiveSections(t *testing.T) {
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})
	rpt, err := b.Build(context.Background(), buildCfg(models.LevelDeepDive))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{SectionPulse, SectionMacro, SectionAssets, SectionSentiment, SectionTechnicals, SectionCorrelations, SectionForward}
	if got := sectionNames(rpt); !reflect.DeepEqual(got, want) {
		t.Fatalf("deep dive sections: got %v, want %v", got, want)
	}
}

func TestBuildExecutiveIgnoresOptionalFlags(t *testing.T) {
	on := true
	req := models.CreateReportRequest{
		Level: 1, Format: "markdown", Source: "mock",
		IncludeTechnicals: &on, IncludeSentiment: &on, IncludeCorrelations: &on,
	}
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})

	rpt, err := b.Build(context.Background(), req.Resolve())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{SectionPulse}
	if got := sectionNames(rpt); !reflect.DeepEqual(got, want) {
		t.Fatalf("level 1 must ignore optional flags: got %v, want %v", got, want)
	}
}

func TestBuildDeepDiveForcesOptionalSections(t *testing.T) {
	off := false
	req := models.CreateReportRequest{
		Level: 3, Format: "markdown", Source: "mock",
		IncludeTechnicals: &off, IncludeSentiment: &off, IncludeCorrelations: &off,
	}
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})

	rpt, err := b.Build(context.Background(), req.Resolve())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{SectionPulse, SectionMacro, SectionAssets, SectionSentiment, SectionTechnicals, SectionCorrelations, SectionForward}
	if got := sectionNames(rpt); !reflect.DeepEqual(got, want) {
		t.Fatalf("level 3 must force optional sections on: got %v, want %v", got, want)
	}
}

func TestBuildExplicitFlagOverride(t *testing.T) {
	off := false
	req := models.CreateReportRequest{Level: 2, Format: "markdown", Source: "mock", IncludeTechnicals: &off}
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})

	rpt, err := b.Build(context.Background(), req.Resolve())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rpt.Section(SectionTechnicals) != nil {
		t.Fatalf("technicals must be excluded when the flag is false")
	}
}

func TestBuildResearchSection(t *testing.T) {
	on := true
	req := models.CreateReportRequest{Level: 3, Format: "markdown", Source: "mock", IncludeResearch: &on}
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock}, WithSearcher(fakeSearcher{}))

	rpt, err := b.Build(context.Background(), req.Resolve())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sec := rpt.Section(SectionResearch)
	if sec == nil {
		t.Fatalf("expected research section")
	}
	if len(sec.Rows) != 2 {
		t.Fatalf("expected header plus one result, got %d rows", len(sec.Rows))
	}
}

func TestBuildDegradedFlag(t *testing.T) {
	b := testBuilder(&fakeSnapshotter{origin: models.OriginLiveDegraded})
	rpt, err := b.Build(context.Background(), buildCfg(models.LevelStandard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rpt.Degraded {
		t.Fatalf("degraded snapshots must mark the report degraded")
	}
	if rpt.Meta["origin_equities"] != string(models.OriginLiveDegraded) {
		t.Fatalf("expected per-domain origin in meta, got %q", rpt.Meta["origin_equities"])
	}
}

func TestBuildDeterministicWithFixedClock(t *testing.T) {
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})
	cfg := buildCfg(models.LevelDeepDive)

	first, err := b.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := b.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs and clock must produce identical reports")
	}
}

func TestBuildRegimeMetaPresent(t *testing.T) {
	b := testBuilder(&fakeSnapshotter{origin: models.OriginMock})
	rpt, err := b.Build(context.Background(), buildCfg(models.LevelExecutive))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rpt.Meta["regime"] == "" {
		t.Fatalf("expected regime in meta")
	}
	if rpt.ID != "RPT-20250601120000-test01" {
		t.Fatalf("unexpected id %s", rpt.ID)
	}
}
