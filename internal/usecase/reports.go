package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/enhance"
	"MarketPulse/internal/report/format"
	"MarketPulse/pkg/cache"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/logger"
	"MarketPulse/pkg/queue"
)

// Domain event names.
const (
	EventReportCreated = "report.created"
	EventReportDeleted = "report.deleted"
	EventReportFailed  = "report.failed"
)

// MsgTypeGenerateReport is the async job message type.
const MsgTypeGenerateReport = "report.generate"

// ReportBuilder assembles a report from a resolved config.
type ReportBuilder interface {
	Build(ctx context.Context, cfg models.ReportConfig) (*models.Report, error)
}

// SectionEnhancer rewrites report narrative through an LLM provider.
type SectionEnhancer interface {
	Enhance(ctx context.Context, rpt *models.Report, provider, model string) error
	Providers() []enhance.ProviderInfo
}

// AsyncReportRequest is the queued form of a report generation request.
type AsyncReportRequest struct {
	JobID   string                     `json:"job_id"`
	Request models.CreateReportRequest `json:"request"`
}

// RenderedReport pairs encoded bytes with their content type.
type RenderedReport struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ReportUsecase drives the report lifecycle: build, enhance, render,
// persist, announce.
type ReportUsecase struct {
	builder  ReportBuilder
	enhancer SectionEnhancer
	store    domrepo.ReportStore
	rendered cache.Service
	events   domrepo.Publisher
	notifier domrepo.Notifier
	jobs     queue.Service
	log      *logger.Logger
}

// ReportUsecaseOption configures ReportUsecase.
type ReportUsecaseOption func(*ReportUsecase)

// WithJobQueue enables async generation.
func WithJobQueue(q queue.Service) ReportUsecaseOption {
	return func(u *ReportUsecase) { u.jobs = q }
}

// WithRenderedCache caches encoded report bytes for downloads.
func WithRenderedCache(c cache.Service) ReportUsecaseOption {
	return func(u *ReportUsecase) { u.rendered = c }
}

// NewReportUsecase creates the report usecase.
func NewReportUsecase(
	builder ReportBuilder,
	enhancer SectionEnhancer,
	store domrepo.ReportStore,
	events domrepo.Publisher,
	notifier domrepo.Notifier,
	log *logger.Logger,
	opts ...ReportUsecaseOption,
) *ReportUsecase {
	u := &ReportUsecase{
		builder:  builder,
		enhancer: enhancer,
		store:    store,
		events:   events,
		notifier: notifier,
		log:      log,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Create builds, optionally enhances, renders and persists a report.
func (u *ReportUsecase) Create(ctx context.Context, req models.CreateReportRequest) (*models.Report, error) {
	cfg := req.Resolve()

	rpt, err := u.builder.Build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	if cfg.EnhanceProvider != "" {
		// Enhance errors only for an unknown or unconfigured provider,
		// which is a caller problem; generation failures degrade instead.
		if err := u.enhancer.Enhance(ctx, rpt, cfg.EnhanceProvider, cfg.EnhanceModel); err != nil {
			return nil, xhttp.BadRequestErrorf("enhance report: %v", err)
		}
	}

	rendered, contentType, err := format.Encode(rpt)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	if err := u.store.Save(ctx, rpt, rendered); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if u.rendered != nil {
		if err := u.rendered.Set(ctx, renderedKey(rpt.ID), rendered, 0); err != nil {
			u.log.Warn("cache rendered report", logger.Error(err))
		}
	}

	if err := u.events.Publish(ctx, EventReportCreated, rpt.ID, map[string]string{
		"report_id": rpt.ID,
		"level":     rpt.Level.String(),
		"format":    string(rpt.Format),
	}); err != nil {
		u.log.Warn("publish report event", logger.Error(err))
	}
	u.notifier.Notify(EventReportCreated, map[string]string{"report_id": rpt.ID})

	u.log.Info("report created",
		logger.String("report_id", rpt.ID),
		logger.String("level", rpt.Level.String()),
		logger.String("format", string(rpt.Format)),
		logger.String("content_type", contentType),
		logger.Bool("degraded", rpt.Degraded))
	return rpt, nil
}

// CreateAsync enqueues a generation job and returns its id.
func (u *ReportUsecase) CreateAsync(ctx context.Context, req models.CreateReportRequest) (string, error) {
	if u.jobs == nil {
		return "", errors.New("async generation is not enabled")
	}
	jobID := uuid.NewString()
	err := u.jobs.PublishMessage(ctx, MsgTypeGenerateReport, AsyncReportRequest{
		JobID:   jobID,
		Request: req,
	})
	if err != nil {
		return "", fmt.Errorf("enqueue report job: %w", err)
	}
	return jobID, nil
}

// Get returns a stored report.
func (u *ReportUsecase) Get(ctx context.Context, id string) (*models.Report, error) {
	rpt, _, err := u.store.Get(ctx, id)
	return rpt, err
}

// List returns a page of stored reports with the total count.
func (u *ReportUsecase) List(ctx context.Context, q models.ListReportsQuery) ([]*models.Report, int64, error) {
	return u.store.List(ctx, q.Limit, q.Offset)
}

// Download returns the rendered bytes for a report, preferring the
// rendered-bytes cache over the store. A non-empty formatOverride
// re-encodes the stored report in that encoding instead.
func (u *ReportUsecase) Download(ctx context.Context, id, formatOverride string) (*RenderedReport, error) {
	var rpt *models.Report
	var rendered []byte

	if u.rendered != nil {
		if err := u.rendered.Get(ctx, renderedKey(id), &rendered); err == nil {
			if r, _, gerr := u.store.Get(ctx, id); gerr == nil {
				rpt = r
			}
		}
	}
	if rpt == nil {
		var err error
		rpt, rendered, err = u.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if formatOverride != "" && formatOverride != string(rpt.Format) {
		f, err := models.ParseFormat(formatOverride)
		if err != nil {
			return nil, err
		}
		recoded := *rpt
		recoded.Format = f
		data, _, err := format.Encode(&recoded)
		if err != nil {
			return nil, fmt.Errorf("re-encode report: %w", err)
		}
		rpt, rendered = &recoded, data
	}

	return &RenderedReport{
		Data:        rendered,
		ContentType: format.ContentType(rpt.Format),
		Filename:    fmt.Sprintf("%s.%s", rpt.ID, format.Extension(rpt.Format)),
	}, nil
}

// Delete removes a stored report.
func (u *ReportUsecase) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, id); err != nil {
		return err
	}
	if u.rendered != nil {
		if err := u.rendered.Delete(ctx, renderedKey(id)); err != nil {
			u.log.Warn("evict rendered report", logger.Error(err))
		}
	}
	if err := u.events.Publish(ctx, EventReportDeleted, id, map[string]string{"report_id": id}); err != nil {
		u.log.Warn("publish report event", logger.Error(err))
	}
	return nil
}

// Providers lists the enhancement provider registry.
func (u *ReportUsecase) Providers() []enhance.ProviderInfo {
	return u.enhancer.Providers()
}

func renderedKey(id string) string {
	return "rendered:" + id
}
