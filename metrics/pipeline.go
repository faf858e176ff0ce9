package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Page fetch outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PipelineMetrics instruments page retrieval, scoring and statistics.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	PagesFetched      *prometheus.CounterVec
	FetchDuration     *prometheus.HistogramVec
	ReviewsScored     *prometheus.CounterVec
	StatisticsSkipped *prometheus.CounterVec
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics on the given registry
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "pages_total",
			Help:      "Total number of storefront pages fetched, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "page_duration_seconds",
			Help:      "Duration of a single storefront page fetch in seconds.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),
		ReviewsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "reviews_scored_total",
			Help:      "Total number of reviews scored, by provider.",
		}, []string{"provider"}),
		StatisticsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "statistics",
			Name:      "skipped_total",
			Help:      "Total number of responses returned without statistics, by provider.",
		}, []string{"provider"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "page_cache",
			Name:      "hits_total",
			Help:      "Total number of page cache hits, by provider.",
		}, []string{"provider"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "page_cache",
			Name:      "misses_total",
			Help:      "Total number of page cache misses, by provider.",
		}, []string{"provider"}),
	}

	reg.MustRegister(m.PagesFetched, m.FetchDuration, m.ReviewsScored, m.StatisticsSkipped, m.CacheHits, m.CacheMisses)
	return m
}

// ObservePage records one page fetch
func (m *PipelineMetrics) ObservePage(provider string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.PagesFetched.WithLabelValues(provider, outcome).Inc()
	m.FetchDuration.WithLabelValues(provider).Observe(took.Seconds())
}

// AddScored counts n scored reviews
func (m *PipelineMetrics) AddScored(provider string, n int) {
	if m == nil {
		return
	}
	m.ReviewsScored.WithLabelValues(provider).Add(float64(n))
}

// StatisticsSkip counts a response served without statistics
func (m *PipelineMetrics) StatisticsSkip(provider string) {
	if m == nil {
		return
	}
	m.StatisticsSkipped.WithLabelValues(provider).Inc()
}

// CacheHit counts a page cache hit
func (m *PipelineMetrics) CacheHit(provider string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(provider).Inc()
}

// CacheMiss counts a page cache miss
func (m *PipelineMetrics) CacheMiss(provider string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(provider).Inc()
}
