package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports pipeline measurements to Prometheus. It satisfies the
// domain Metrics interface.
type Recorder struct {
	fetchTotal       *prometheus.CounterVec
	fetchErrors      *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	reportsBuilt     *prometheus.CounterVec
	enhanceFailures  *prometheus.CounterVec
	opDuration       *prometheus.HistogramVec
}

// NewRecorder creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer in production.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_fetch_total",
			Help: "Domain snapshot fetches by domain and origin",
		}, []string{"domain", "origin"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_fetch_errors_total",
			Help: "Whole-domain fetch failures by domain and error kind",
		}, []string{"domain", "kind"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_cache_hits_total",
			Help: "Freshness cache hits by domain",
		}, []string{"domain"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_cache_misses_total",
			Help: "Freshness cache misses by domain",
		}, []string{"domain"}),
		reportsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_reports_built_total",
			Help: "Reports assembled by level",
		}, []string{"level"}),
		enhanceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_enhancement_failures_total",
			Help: "Narrative enhancement failures by provider",
		}, []string{"provider"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketpulse_operation_duration_seconds",
			Help:    "Duration of pipeline operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}

	reg.MustRegister(
		r.fetchTotal,
		r.fetchErrors,
		r.cacheHits,
		r.cacheMisses,
		r.reportsBuilt,
		r.enhanceFailures,
		r.opDuration,
	)
	return r
}

func (r *Recorder) RecordFetch(domain, origin string) {
	r.fetchTotal.WithLabelValues(domain, origin).Inc()
}

func (r *Recorder) RecordFetchError(domain, kind string) {
	r.fetchErrors.WithLabelValues(domain, kind).Inc()
}

func (r *Recorder) RecordCacheHit(domain string) {
	r.cacheHits.WithLabelValues(domain).Inc()
}

func (r *Recorder) RecordCacheMiss(domain string) {
	r.cacheMisses.WithLabelValues(domain).Inc()
}

func (r *Recorder) RecordReportBuilt(level string) {
	r.reportsBuilt.WithLabelValues(level).Inc()
}

func (r *Recorder) RecordEnhancementFailure(provider string) {
	r.enhanceFailures.WithLabelValues(provider).Inc()
}

func (r *Recorder) RecordLatency(op string, d time.Duration) {
	r.opDuration.WithLabelValues(op).Observe(d.Seconds())
}
