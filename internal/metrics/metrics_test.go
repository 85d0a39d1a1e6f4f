package metrics_test

import (
	"testing"
	"time"

	"github.com/Houeta/pulsemarket/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewFeedMetrics(reg)

	m.ObserveResult("populated", 20*time.Millisecond)
	m.ObserveResult("populated", 30*time.Millisecond)
	m.ObserveResult("", time.Millisecond)
	m.IncStale()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"feed_fetch_duration_seconds", "feed_results_total", "feed_stale_responses_total",
	}, names)

	count(t, reg, "feed_stale_responses_total", 1)
	count(t, reg, "feed_results_total", 2)
}

func TestNilRecorders(t *testing.T) {
	var feed *metrics.FeedMetrics
	var featured *metrics.FeaturedMetrics

	assert.NotPanics(t, func() {
		feed.ObserveResult("empty", time.Second)
		feed.IncStale()
		featured.IncCheck("changed")
		featured.IncNotification("sent")
		metrics.NewFeedMetrics(nil).IncStale()
		metrics.NewFeaturedMetrics(nil).IncCheck("error")
	})
}

func TestFeaturedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewFeaturedMetrics(reg)

	m.IncCheck("changed")
	m.IncCheck("unchanged")
	m.IncNotification("sent")

	count(t, reg, "featured_checks_total", 2)
	count(t, reg, "featured_notifications_total", 1)
}

func count(t *testing.T, reg *prometheus.Registry, name string, expected int) {
	t.Helper()

	got, err := testutil.GatherAndCount(reg, name)
	require.NoError(t, err)
	assert.Equal(t, expected, got, name)
}
