package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/provider"
	"MarketPulse/pkg/logger"
)

type fakeFetcher struct {
	domain  models.Domain
	calls   int
	results []fetchResult
}

type fetchResult struct {
	payload models.DomainPayload
	failed  []string
	err     error
}

func (f *fakeFetcher) Domain() models.Domain  { return f.domain }
func (f *fakeFetcher) Timeout() time.Duration { return time.Second }

func (f *fakeFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	r := f.results[i]
	return r.payload, r.failed, r.err
}

func macroPayload() *models.MacroPayload {
	f := func(v float64) *float64 { return &v }
	return &models.MacroPayload{
		CPIYoY: f(3.1), GDPGrowth: f(2.0), FedFunds: f(5.25), Treasury10Y: f(4.1),
	}
}

func newTestAggregator(fetchers provider.Set) *Aggregator {
	return New(fetchers, provider.NewMock(), NewFreshness(nil), logger.Nop())
}

func fetchErr(kind provider.ErrorKind) *provider.FetchError {
	return &provider.FetchError{Provider: "test", Kind: kind, Err: errors.New("boom")}
}

func TestSnapshotLiveSuccessIsCached(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{payload: macroPayload()},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	s, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Origin != models.OriginLive {
		t.Fatalf("expected live origin, got %s", s.Origin)
	}

	// second call must come from cache without touching the fetcher
	if _, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", f.calls)
	}
}

func TestSnapshotFallbackNotCached(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{err: fetchErr(provider.KindRateLimited)},
		{payload: macroPayload()},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	s, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Origin != models.OriginLiveDegraded {
		t.Fatalf("expected live_degraded, got %s", s.Origin)
	}

	// fallback must not be cached: next request probes live again
	s2, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s2.Origin != models.OriginLive {
		t.Fatalf("expected live after recovery, got %s", s2.Origin)
	}
}

func TestSnapshotRetriesTimeoutOnce(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{err: fetchErr(provider.KindTimeout)},
		{payload: macroPayload()},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	s, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Origin != models.OriginLive {
		t.Fatalf("expected live after retry, got %s", s.Origin)
	}
	if f.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", f.calls)
	}
}

func TestSnapshotNoRetryOnRateLimit(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{err: fetchErr(provider.KindRateLimited)},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	s, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Origin != models.OriginLiveDegraded {
		t.Fatalf("expected live_degraded, got %s", s.Origin)
	}
	if f.calls != 1 {
		t.Fatalf("expected single attempt, got %d", f.calls)
	}
}

func TestSnapshotPartialIsCached(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{payload: macroPayload(), failed: []string{"hy_spread"}},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	s, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Partial {
		t.Fatalf("expected partial snapshot")
	}

	s2, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("expected partial result to be cached, got %d fetches", f.calls)
	}
	if !s2.Partial || len(s2.FailedItems) != 1 {
		t.Fatalf("cached snapshot lost partial state")
	}
}

func TestSnapshotMockSourceBypassesCacheAndLive(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{payload: macroPayload()},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	s, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceMock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Origin != models.OriginMock {
		t.Fatalf("expected mock origin, got %s", s.Origin)
	}
	if f.calls != 0 {
		t.Fatalf("mock source must not hit the live adapter")
	}

	// mock must not poison the cache
	s2, err := agg.Snapshot(context.Background(), models.DomainMacro, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s2.Origin != models.OriginLive {
		t.Fatalf("expected live origin, got %s", s2.Origin)
	}
}

func TestSnapshotAllIsolatesFailures(t *testing.T) {
	good := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{payload: macroPayload()},
	}}
	bad := &fakeFetcher{domain: models.DomainCrypto, results: []fetchResult{
		{err: fetchErr(provider.KindMalformed)},
	}}
	agg := newTestAggregator(provider.Set{
		models.DomainMacro:  good,
		models.DomainCrypto: bad,
	})

	snapshots, err := agg.SnapshotAll(context.Background(),
		[]models.Domain{models.DomainMacro, models.DomainCrypto}, models.SourceLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshots[models.DomainMacro].Origin != models.OriginLive {
		t.Fatalf("healthy domain degraded by sibling failure")
	}
	if snapshots[models.DomainCrypto].Origin != models.OriginLiveDegraded {
		t.Fatalf("expected degraded crypto snapshot")
	}
}

func TestSnapshotCancelledContext(t *testing.T) {
	f := &fakeFetcher{domain: models.DomainMacro, results: []fetchResult{
		{payload: macroPayload()},
	}}
	agg := newTestAggregator(provider.Set{models.DomainMacro: f})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := agg.Snapshot(ctx, models.DomainMacro, models.SourceLive); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestFreshnessExpiry(t *testing.T) {
	cache := NewFreshness(TTLTable{models.DomainCrypto: 5 * time.Minute})
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Put(models.Snapshot{
		Domain:    models.DomainCrypto,
		Origin:    models.OriginLive,
		FetchedAt: current,
		Payload:   &models.CryptoPayload{FearGreed: 50},
	})

	if _, ok := cache.Get(models.DomainCrypto); !ok {
		t.Fatalf("expected fresh hit")
	}

	current = current.Add(5*time.Minute + time.Second)
	if _, ok := cache.Get(models.DomainCrypto); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestFreshnessRejectsNonLive(t *testing.T) {
	cache := NewFreshness(nil)
	cache.Put(models.Snapshot{
		Domain:  models.DomainCrypto,
		Origin:  models.OriginLiveDegraded,
		Payload: &models.CryptoPayload{FearGreed: 50},
	})
	if _, ok := cache.Get(models.DomainCrypto); ok {
		t.Fatalf("degraded snapshot must not be cached")
	}
}
