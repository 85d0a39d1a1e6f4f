// Package metrics holds the prometheus collectors of the client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FeedMetrics records the outcome of product feed fetches.
type FeedMetrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
	stale    prometheus.Counter
}

// NewFeedMetrics registers the feed metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	if reg == nil {
		return &FeedMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_fetch_duration_seconds",
		Help:    "Duration of product feed fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_results_total",
		Help: "Applied product feed results by outcome.",
	}, []string{"outcome"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_stale_responses_total",
		Help: "Feed responses discarded because a newer request was issued.",
	})
	reg.MustRegister(duration, results, stale)
	return &FeedMetrics{
		duration: duration,
		results:  results,
		stale:    stale,
	}
}

// ObserveResult records an applied result and how long its fetch took.
func (m *FeedMetrics) ObserveResult(outcome string, took time.Duration) {
	if m == nil || m.results == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.results.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(took.Seconds())
}

// IncStale counts a discarded response.
func (m *FeedMetrics) IncStale() {
	if m == nil || m.stale == nil {
		return
	}
	m.stale.Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
