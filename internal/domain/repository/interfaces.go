package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// ReportStore persists assembled reports. Report identity is an opaque
// string key; the store never mutates a stored report.
type ReportStore interface {
	Save(ctx context.Context, report *models.Report, rendered []byte) error
	Get(ctx context.Context, id string) (*models.Report, []byte, error)
	List(ctx context.Context, limit, offset int) ([]*models.Report, int64, error)
	Delete(ctx context.Context, id string) error
}

// Publisher emits domain events (report.created, snapshot.refreshed) to
// the event backbone.
type Publisher interface {
	Publish(ctx context.Context, event string, key string, payload any) error
}

// Notifier pushes server events to connected dashboard clients.
type Notifier interface {
	Notify(event string, payload any)
}

// Metrics records operational measurements for the aggregation and
// report pipeline.
type Metrics interface {
	RecordFetch(domain string, origin string)
	RecordFetchError(domain string, kind string)
	RecordCacheHit(domain string)
	RecordCacheMiss(domain string)
	RecordReportBuilt(level string)
	RecordEnhancementFailure(provider string)
	RecordLatency(op string, d time.Duration)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) RecordFetch(string, string) {}
func (NopMetrics) RecordFetchError(string, string) {}
func (NopMetrics) RecordCacheHit(string) {}
func (NopMetrics) RecordCacheMiss(string) {}
func (NopMetrics) RecordReportBuilt(string) {}
func (NopMetrics) RecordEnhancementFailure(string) {}
func (NopMetrics) RecordLatency(string, time.Duration) {}
