// Package metrics provides Prometheus metrics for Parley.
//
// # Metrics
//
//   - parley_chat_requests_total{outcome,method}
//   - parley_chat_request_duration_seconds{outcome}
//   - parley_upstream_attempts_total{method,outcome}
//   - parley_upstream_latency_seconds{method}
//   - parley_upstream_errors_total{method,error_code}
//   - parley_token_exchanges_total{outcome}
//
// The error_code label carries values chosen by the upstream service, so it
// is capped by a CardinalityLimiter; codes past the cap are counted as
// "other".
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordAttempt("chat", false, 420*time.Millisecond, "model_not_supported")
//	http.Handle("/metrics", collector.Handler())
package metrics
