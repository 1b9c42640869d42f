package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/provider"
	"MarketPulse/pkg/logger"
)

// retryable reports whether a failure kind earns one more attempt.
// Rate-limit denials and malformed payloads fall straight through to
// the mock fallback; retrying them either burns budget or repeats a
// deterministic failure.
func retryable(kind provider.ErrorKind) bool {
	return kind == provider.KindTimeout || kind == provider.KindUpstream
}

// Aggregator resolves domain snapshots: freshness cache first, then a
// live fetch with bounded retry, then the deterministic mock fallback.
// A request never fails because an upstream did.
type Aggregator struct {
	fetchers provider.Set
	mock     *provider.Mock
	cache    *Freshness
	log      *logger.Logger
	metrics  repository.Metrics
	now      func() time.Time
}

// Option configures Aggregator.
type Option func(*Aggregator)

// WithMetrics sets the metrics recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New creates an Aggregator.
func New(fetchers provider.Set, mock *provider.Mock, cache *Freshness, log *logger.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetchers: fetchers,
		mock:     mock,
		cache:    cache,
		log:      log,
		metrics:  repository.NopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot resolves one domain. Mock source bypasses both the cache
// and the live path. The returned error is non-nil only when the
// caller's context ended.
func (a *Aggregator) Snapshot(ctx context.Context, domain models.Domain, source models.Source) (models.Snapshot, error) {
	if source == models.SourceMock {
		a.metrics.RecordFetch(string(domain), string(models.OriginMock))
		return a.mockSnapshot(domain, models.OriginMock), nil
	}

	if snapshot, ok := a.cache.Get(domain); ok {
		a.metrics.RecordCacheHit(string(domain))
		return snapshot, nil
	}
	a.metrics.RecordCacheMiss(string(domain))

	snapshot, err := a.fetchLive(ctx, domain)
	if err == nil {
		a.cache.Put(snapshot)
		a.metrics.RecordFetch(string(domain), string(models.OriginLive))
		return snapshot, nil
	}

	if ctx.Err() != nil {
		return models.Snapshot{}, ctx.Err()
	}

	var ferr *provider.FetchError
	if errors.As(err, &ferr) {
		a.metrics.RecordFetchError(string(domain), string(ferr.Kind))
	}
	a.log.Warn("live fetch failed, serving mock fallback",
		logger.String("domain", string(domain)),
		logger.Error(err))

	// Fallback is never cached: the next request probes live again.
	a.metrics.RecordFetch(string(domain), string(models.OriginLiveDegraded))
	return a.mockSnapshot(domain, models.OriginLiveDegraded), nil
}

// SnapshotAll resolves multiple domains concurrently. Domain failures
// are isolated; a degraded domain never affects its siblings.
func (a *Aggregator) SnapshotAll(ctx context.Context, domains []models.Domain, source models.Source) (map[models.Domain]models.Snapshot, error) {
	type result struct {
		domain   models.Domain
		snapshot models.Snapshot
		err      error
	}

	results := make(chan result, len(domains))
	var wg sync.WaitGroup
	for _, domain := range domains {
		wg.Add(1)
		go func(domain models.Domain) {
			defer wg.Done()
			s, err := a.Snapshot(ctx, domain, source)
			results <- result{domain: domain, snapshot: s, err: err}
		}(domain)
	}
	wg.Wait()
	close(results)

	snapshots := make(map[models.Domain]models.Snapshot, len(domains))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		snapshots[r.domain] = r.snapshot
	}
	return snapshots, nil
}

// Refresh drops the cached snapshot and fetches live again. Used by
// the cache-warm command consumer.
func (a *Aggregator) Refresh(ctx context.Context, domain models.Domain) (models.Snapshot, error) {
	a.cache.Invalidate(domain)
	return a.Snapshot(ctx, domain, models.SourceLive)
}

func (a *Aggregator) fetchLive(ctx context.Context, domain models.Domain) (models.Snapshot, error) {
	fetcher, ok := a.fetchers[domain]
	if !ok {
		return models.Snapshot{}, &provider.FetchError{
			Provider: string(domain),
			Kind:     provider.KindUpstream,
			Err:      errors.New("no live adapter registered"),
		}
	}

	attempts := 1
	for {
		start := a.now()
		snapshot, err := a.attempt(ctx, domain, fetcher)
		a.metrics.RecordLatency("fetch_"+string(domain), a.now().Sub(start))
		if err == nil {
			return snapshot, nil
		}
		if ctx.Err() != nil {
			return models.Snapshot{}, err
		}

		var ferr *provider.FetchError
		if !errors.As(err, &ferr) || !retryable(ferr.Kind) || attempts > 1 {
			return models.Snapshot{}, err
		}
		attempts++
		a.log.Debug("retrying live fetch",
			logger.String("domain", string(domain)),
			logger.String("kind", string(ferr.Kind)))
	}
}

func (a *Aggregator) attempt(ctx context.Context, domain models.Domain, fetcher provider.Fetcher) (models.Snapshot, error) {
	fctx, cancel := context.WithTimeout(ctx, fetcher.Timeout())
	defer cancel()

	payload, failedItems, err := fetcher.Fetch(fctx)
	if err != nil {
		var ferr *provider.FetchError
		if !errors.As(err, &ferr) {
			err = provider.Classify(string(domain), err)
		}
		return models.Snapshot{}, err
	}

	snapshot := models.Snapshot{
		Domain:      domain,
		Origin:      models.OriginLive,
		FetchedAt:   a.now().UTC(),
		Partial:     len(failedItems) > 0,
		FailedItems: failedItems,
		Payload:     payload,
	}
	if err := snapshot.Validate(); err != nil {
		return models.Snapshot{}, provider.Malformed(string(domain), err)
	}
	return snapshot, nil
}

func (a *Aggregator) mockSnapshot(domain models.Domain, origin models.Origin) models.Snapshot {
	return models.Snapshot{
		Domain:    domain,
		Origin:    origin,
		FetchedAt: a.now().UTC(),
		Payload:   a.mock.Payload(domain),
	}
}
