package metrics

import "github.com/prometheus/client_golang/prometheus"

// FeaturedMetrics records featured slide checks and alert delivery.
type FeaturedMetrics struct {
	checks        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewFeaturedMetrics registers the featured watcher metrics.
func NewFeaturedMetrics(reg prometheus.Registerer) *FeaturedMetrics {
	if reg == nil {
		return &FeaturedMetrics{}
	}
	checks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "featured_checks_total",
		Help: "Featured slide checks by result.",
	}, []string{"result"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "featured_notifications_total",
		Help: "Featured slide alerts sent to chats by result.",
	}, []string{"result"})
	reg.MustRegister(checks, notifications)
	return &FeaturedMetrics{checks: checks, notifications: notifications}
}

// IncCheck counts a check. result is "initialized", "changed", "unchanged" or "error".
func (m *FeaturedMetrics) IncCheck(result string) {
	if m == nil || m.checks == nil {
		return
	}
	m.checks.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncNotification counts an alert. result is "sent" or "error".
func (m *FeaturedMetrics) IncNotification(result string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(result)).Inc()
}
