package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"MarketPulse/internal/analysis"
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/research"
	"MarketPulse/pkg/logger"
)

// Snapshotter resolves domain snapshots for the builder.
type Snapshotter interface {
	SnapshotAll(ctx context.Context, domains []models.Domain, source models.Source) (map[models.Domain]models.Snapshot, error)
}

// Builder assembles tiered reports from domain snapshots and derived
// analytics. Assembly is deterministic for fixed inputs and clock.
type Builder struct {
	snaps    Snapshotter
	searcher research.Searcher
	log      *logger.Logger
	metrics  repository.Metrics
	now      func() time.Time
	newID    func(t time.Time) string
}

// Option configures Builder.
type Option func(*Builder)

// WithSearcher enables the research section collaborator.
func WithSearcher(s research.Searcher) Option {
	return func(b *Builder) { b.searcher = s }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides report ID generation.
func WithIDGenerator(gen func(t time.Time) string) Option {
	return func(b *Builder) { b.newID = gen }
}

// NewBuilder creates a report builder.
func NewBuilder(snaps Snapshotter, log *logger.Logger, opts ...Option) *Builder {
	b := &Builder{
		snaps:   snaps,
		log:     log,
		metrics: repository.NopMetrics{},
		now:     time.Now,
		newID:   defaultID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func defaultID(t time.Time) string {
	return fmt.Sprintf("RPT-%s-%s",
		t.UTC().Format("20060102150405"),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// Build assembles a report per the resolved configuration. Sections
// appear in a fixed order; optional sections are gated by the config.
func (b *Builder) Build(ctx context.Context, cfg models.ReportConfig) (*models.Report, error) {
	start := b.now()

	domains := []models.Domain{
		models.DomainEquities,
		models.DomainFX,
		models.DomainCommodities,
		models.DomainCrypto,
		models.DomainMacro,
	}
	if cfg.IncludeSentiment {
		domains = append(domains, models.DomainSentiment)
	}

	snapshots, err := b.snaps.SnapshotAll(ctx, domains, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshots: %w", err)
	}

	regime := classifyFromSnapshots(snapshots)

	createdAt := b.now().UTC()
	rpt := &models.Report{
		ID:        b.newID(createdAt),
		Title:     cfg.Title,
		Level:     cfg.Level,
		Format:    cfg.Format,
		CreatedAt: createdAt,
		Meta: map[string]string{
			"regime":            string(regime.Regime),
			"regime_confidence": fmt.Sprintf("%.2f", regime.Confidence),
			"source":            string(cfg.Source),
		},
	}
	if rpt.Title == "" {
		rpt.Title = "Market Pulse " + createdAt.Format("2006-01-02")
	}
	for domain, s := range snapshots {
		rpt.Meta["origin_"+string(domain)] = string(s.Origin)
		if s.Origin == models.OriginLiveDegraded {
			rpt.Degraded = true
		}
	}

	// Level 1 is the pulse with headline metrics only. Level 2 adds the
	// macro and asset breakdowns plus flagged optionals. Level 3 adds
	// the forward event watch on top of every optional section.
	rpt.Sections = append(rpt.Sections, pulseSection(snapshots, regime))
	if cfg.Level >= models.LevelStandard {
		rpt.Sections = append(rpt.Sections, macroSection(snapshots, regime))
		rpt.Sections = append(rpt.Sections, assetsSection(snapshots))
	}
	if cfg.IncludeSentiment {
		rpt.Sections = append(rpt.Sections, sentimentSection(snapshots))
	}
	if cfg.IncludeTechnicals {
		rpt.Sections = append(rpt.Sections, technicalsSection(snapshots))
	}
	if cfg.IncludeCorrelations {
		rpt.Sections = append(rpt.Sections, correlationsSection(snapshots))
	}
	if cfg.IncludeResearch && b.searcher != nil {
		if sec, ok := b.researchSection(ctx, regime); ok {
			rpt.Sections = append(rpt.Sections, sec)
		}
	}
	if cfg.Level == models.LevelDeepDive {
		rpt.Sections = append(rpt.Sections, forwardSection(snapshots, regime))
	}

	b.metrics.RecordReportBuilt(cfg.Level.String())
	b.metrics.RecordLatency("report_build", b.now().Sub(start))
	return rpt, nil
}

// classifyFromSnapshots feeds the regime classifier from whichever
// series made it into the snapshots.
func classifyFromSnapshots(snapshots map[models.Domain]models.Snapshot) analysis.RegimeResult {
	var in analysis.RegimeInput
	if s, ok := snapshots[models.DomainMacro]; ok {
		if macro, ok := s.Payload.(*models.MacroPayload); ok {
			in.InflationYoY = macro.CPIYoY
			in.GDPGrowth = macro.GDPGrowth
			in.HYSpread = macro.HYSpread
		}
	}
	if s, ok := snapshots[models.DomainEquities]; ok {
		if eq, ok := s.Payload.(*models.EquitiesPayload); ok && eq.VIX != nil {
			v := eq.VIX.Price
			in.VIX = &v
		}
	}
	return analysis.ClassifyRegime(in)
}

func (b *Builder) researchSection(ctx context.Context, regime analysis.RegimeResult) (models.Section, bool) {
	query := "market outlook " + strings.ReplaceAll(string(regime.Regime), "_", " ")
	results, err := b.searcher.Search(ctx, query, 5)
	if err != nil {
		b.log.Warn("research search failed, omitting section", logger.Error(err))
		return models.Section{}, false
	}

	sec := models.Section{
		Name:  SectionResearch,
		Title: "Research References",
		Rows:  [][]string{{"Title", "URL", "Summary"}},
	}
	for _, r := range results {
		sec.Rows = append(sec.Rows, []string{r.Title, r.URL, r.Snippet})
	}
	return sec, true
}
