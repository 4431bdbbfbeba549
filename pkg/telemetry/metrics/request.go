package metrics

import (
	"time"

	"mercator-hq/parley/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics tracks inbound chat requests.
//
// Metrics:
//   - parley_chat_requests_total: requests by outcome and reply method
//   - parley_chat_request_duration_seconds: end-to-end handling time by outcome
type ChatMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewChatMetrics creates and registers chat metrics with the provided registry.
func NewChatMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ChatMetrics {
	cm := &ChatMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "chat_requests_total",
				Help:      "Total number of chat requests handled",
			},
			[]string{"outcome", "method"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "chat_request_duration_seconds",
				Help:      "Duration of chat requests in seconds, including token exchange and all upstream attempts",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(cm.requestsTotal, cm.requestDuration)
	return cm
}

// Record records one completed chat request.
func (cm *ChatMetrics) Record(outcome, method string, duration time.Duration) {
	cm.requestsTotal.WithLabelValues(outcome, method).Inc()
	cm.requestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
