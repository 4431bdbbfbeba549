package metrics

import (
	"time"

	"mercator-hq/parley/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to the model service and the identity
// provider.
//
// Metrics:
//   - parley_upstream_attempts_total: model calls by method and outcome
//   - parley_upstream_latency_seconds: model call latency by method
//   - parley_upstream_errors_total: failed model calls by method and error code
//   - parley_token_exchanges_total: identity token exchanges by outcome
type UpstreamMetrics struct {
	attempts       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	tokenExchanges *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_attempts_total",
				Help:      "Total number of model service calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_latency_seconds",
				Help:      "Model service call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"method"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_errors_total",
				Help:      "Total number of failed model service calls by error code",
			},
			[]string{"method", "error_code"},
		),

		tokenExchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "token_exchanges_total",
				Help:      "Total number of identity token exchanges by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(um.attempts, um.latency, um.errors, um.tokenExchanges)
	return um
}

// RecordAttempt records one model call.
func (um *UpstreamMetrics) RecordAttempt(method, outcome string, latency time.Duration) {
	um.attempts.WithLabelValues(method, outcome).Inc()
	um.latency.WithLabelValues(method).Observe(latency.Seconds())
}

// RecordError records the error code of a failed model call.
func (um *UpstreamMetrics) RecordError(method, errorCode string) {
	um.errors.WithLabelValues(method, errorCode).Inc()
}

// RecordTokenExchange records one token exchange.
func (um *UpstreamMetrics) RecordTokenExchange(outcome string) {
	um.tokenExchanges.WithLabelValues(outcome).Inc()
}
