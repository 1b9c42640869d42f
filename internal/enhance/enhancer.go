package enhance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/logger"
)

// Enhancer rewrites the narrative sections of a report through an
// enhancement provider. Tabular sections and all numbers pass through
// untouched; a provider failure degrades the report instead of failing
// the request.
type Enhancer struct {
	registry *Registry
	log      *logger.Logger
	metrics  repository.Metrics
	timeout  time.Duration
}

// NewEnhancer creates an Enhancer.
func NewEnhancer(registry *Registry, log *logger.Logger, metrics repository.Metrics, timeout time.Duration) *Enhancer {
	if metrics == nil {
		metrics = repository.NopMetrics{}
	}
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &Enhancer{registry: registry, log: log, metrics: metrics, timeout: timeout}
}

// Providers lists the registry contents for the API surface.
func (e *Enhancer) Providers() []ProviderInfo {
	return e.registry.List()
}

// Enhance rewrites the report's narrative sections in place. The error
// return covers only an unknown/unconfigured provider; generation
// failures mark the report degraded and keep the original text.
func (e *Enhancer) Enhance(ctx context.Context, rpt *models.Report, providerName, model string) error {
	gen, err := e.registry.Generator(providerName, model)
	if err != nil {
		return err
	}
	return e.enhanceWith(ctx, rpt, gen)
}

func (e *Enhancer) enhanceWith(ctx context.Context, rpt *models.Report, gen Generator) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Rewrites are staged and applied only after every section succeeds,
	// so a mid-stream failure leaves the report exactly as built.
	rewritten := make(map[int]string)
	for i := range rpt.Sections {
		sec := &rpt.Sections[i]
		if !sec.Narrative || sec.Body == "" {
			continue
		}

		text, err := gen.Generate(ctx, sectionPrompt(rpt, sec))
		if err != nil {
			e.log.Warn("enhancement failed, keeping original text",
				logger.String("provider", gen.Name()),
				logger.String("section", sec.Name),
				logger.Error(err))
			e.metrics.RecordEnhancementFailure(gen.Name())
			rpt.Degraded = true
			rpt.Meta["enhancement"] = "failed"
			return nil
		}
		rewritten[i] = strings.TrimSpace(text)
	}

	for i, text := range rewritten {
		rpt.Sections[i].Body = text
	}
	rpt.Meta["enhancement"] = gen.Name()
	return nil
}

func sectionPrompt(rpt *models.Report, sec *models.Section) string {
	return fmt.Sprintf(
		"You are a market analyst editor. Rewrite the following %q section of a %s market report "+
			"into polished analyst prose. Keep every figure exactly as given, add no new data, "+
			"and answer with the rewritten text only.\n\n%s",
		sec.Title, rpt.Level, sec.Body)
}
