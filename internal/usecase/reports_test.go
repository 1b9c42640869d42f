package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/enhance"
	"MarketPulse/internal/repository"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/logger"
)

type fakeBuilder struct {
	built int
	err   error
}

func (f *fakeBuilder) Build(_ context.Context, cfg models.ReportConfig) (*models.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.built++
	return &models.Report{
		ID:        "RPT-20250601120000-test01",
		Title:     "Test Report",
		Level:     cfg.Level,
		Format:    cfg.Format,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Meta:      map[string]string{},
		Sections: []models.Section{
			{Name: "pulse", Title: "Market Pulse", Body: "Calm.", Narrative: true},
		},
	}, nil
}

type fakeEnhancer struct {
	called   int
	provider string
	err      error
}

func (f *fakeEnhancer) Enhance(_ context.Context, rpt *models.Report, provider, _ string) error {
	f.called++
	f.provider = provider
	if f.err != nil {
		return f.err
	}
	rpt.Meta["enhancement"] = provider
	return nil
}

func (f *fakeEnhancer) Providers() []enhance.ProviderInfo {
	return []enhance.ProviderInfo{{Name: "ollama"}}
}

type capturedEvent struct {
	event string
	key   string
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, event, key string, _ any) error {
	f.events = append(f.events, capturedEvent{event: event, key: key})
	return nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Notify(event string, _ any) {
	f.events = append(f.events, event)
}

func newTestUsecase(b *fakeBuilder, e *fakeEnhancer) (*ReportUsecase, *fakePublisher, *fakeNotifier) {
	pub := &fakePublisher{}
	not := &fakeNotifier{}
	u := NewReportUsecase(b, e, repository.NewMemoryReportStore(), pub, not, logger.Nop())
	return u, pub, not
}

func TestCreatePersistsAndAnnounces(t *testing.T) {
	u, pub, not := newTestUsecase(&fakeBuilder{}, &fakeEnhancer{})

	rpt, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 2, Format: "markdown", Source: "mock",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, err := u.Get(context.Background(), rpt.ID)
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if stored.ID != rpt.ID {
		t.Fatalf("stored id mismatch")
	}

	if len(pub.events) != 1 || pub.events[0].event != EventReportCreated || pub.events[0].key != rpt.ID {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
	if len(not.events) != 1 || not.events[0] != EventReportCreated {
		t.Fatalf("unexpected notifications: %v", not.events)
	}
}

func TestCreateSkipsEnhancementWithoutProvider(t *testing.T) {
	e := &fakeEnhancer{}
	u, _, _ := newTestUsecase(&fakeBuilder{}, e)

	if _, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 2, Format: "markdown", Source: "mock",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.called != 0 {
		t.Fatalf("enhancer must not run without a provider")
	}
}

func TestCreateRunsEnhancement(t *testing.T) {
	e := &fakeEnhancer{}
	u, _, _ := newTestUsecase(&fakeBuilder{}, e)

	if _, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 2, Format: "markdown", Source: "mock", EnhanceProvider: "ollama",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.called != 1 || e.provider != "ollama" {
		t.Fatalf("enhancer not invoked as requested: %+v", e)
	}
}

func TestCreateUnknownEnhanceProviderIsBadRequest(t *testing.T) {
	e := &fakeEnhancer{err: errors.New(`unknown enhancement provider "bogus"`)}
	u, _, _ := newTestUsecase(&fakeBuilder{}, e)

	_, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 2, Format: "markdown", Source: "mock", EnhanceProvider: "bogus",
	})
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusBadRequest {
		t.Fatalf("unknown provider must map to a 400 app error, got %v", err)
	}
}

func TestCreateBuildFailure(t *testing.T) {
	u, pub, _ := newTestUsecase(&fakeBuilder{err: errors.New("upstream broken")}, &fakeEnhancer{})

	if _, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 2, Format: "markdown", Source: "mock",
	}); err == nil {
		t.Fatalf("expected build error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no events must fire on failure")
	}
}

func TestDownloadRendersStoredBytes(t *testing.T) {
	u, _, _ := newTestUsecase(&fakeBuilder{}, &fakeEnhancer{})

	rpt, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 1, Format: "html", Source: "mock",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dl, err := u.Download(context.Background(), rpt.ID, "")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if dl.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", dl.ContentType)
	}
	if dl.Filename != rpt.ID+".html" {
		t.Fatalf("unexpected filename %q", dl.Filename)
	}
	if len(dl.Data) == 0 {
		t.Fatalf("rendered bytes missing")
	}
}

func TestDownloadFormatOverride(t *testing.T) {
	u, _, _ := newTestUsecase(&fakeBuilder{}, &fakeEnhancer{})

	rpt, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 1, Format: "html", Source: "mock",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dl, err := u.Download(context.Background(), rpt.ID, "json")
	if err != nil {
		t.Fatalf("download override: %v", err)
	}
	if dl.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", dl.ContentType)
	}
	if dl.Filename != rpt.ID+".json" {
		t.Fatalf("unexpected filename %q", dl.Filename)
	}

	if _, err := u.Download(context.Background(), rpt.ID, "parchment"); err == nil {
		t.Fatalf("unknown format must fail")
	}
}

func TestDeleteRemovesAndAnnounces(t *testing.T) {
	u, pub, _ := newTestUsecase(&fakeBuilder{}, &fakeEnhancer{})

	rpt, err := u.Create(context.Background(), models.CreateReportRequest{
		Level: 2, Format: "markdown", Source: "mock",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := u.Delete(context.Background(), rpt.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := u.Get(context.Background(), rpt.ID); err == nil {
		t.Fatalf("report must be gone after delete")
	}
	if pub.events[len(pub.events)-1].event != EventReportDeleted {
		t.Fatalf("expected delete event, got %+v", pub.events)
	}
}

func TestCreateAsyncWithoutQueue(t *testing.T) {
	u, _, _ := newTestUsecase(&fakeBuilder{}, &fakeEnhancer{})
	if _, err := u.CreateAsync(context.Background(), models.CreateReportRequest{}); err == nil {
		t.Fatalf("async without queue must fail")
	}
}
