package metrics

import (
	"sync"
	"time"

	"mercator-hq/parley/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OverflowLabel replaces label values once a cardinality limit is reached.
const OverflowLabel = "other"

// Collector owns every Prometheus metric the service exports.
//
// All Record methods are safe on a nil *Collector and on a disabled one,
// so callers never need to check whether metrics are configured.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	chat     *ChatMetrics
	upstream *UpstreamMetrics

	// errorCodes bounds the error_code label, whose values come from the
	// upstream service.
	errorCodes *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. A nil registry
// gets a fresh one, so tests never share state.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}
	if cfg.MaxErrorCodes <= 0 {
		cfg.MaxErrorCodes = config.DefaultMaxErrorCodes
	}

	return &Collector{
		enabled:    cfg.IsEnabled(),
		registry:   registry,
		chat:       NewChatMetrics(cfg, registry),
		upstream:   NewUpstreamMetrics(cfg, registry),
		errorCodes: NewCardinalityLimiter(cfg.MaxErrorCodes),
	}
}

// Registry returns the registry the collector's metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// RecordChat records a completed chat request.
//
// Parameters:
//   - outcome: "success", "fallback", "config_error", "invalid" or "error"
//   - method: the method label of the reply, or "none"
//   - duration: total handling time
func (c *Collector) RecordChat(outcome, method string, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	if method == "" {
		method = "none"
	}
	c.chat.Record(outcome, method, duration)
}

// RecordAttempt records one upstream call.
//
// Parameters:
//   - method: "chat", "generation" or "generation-instruct"
//   - success: whether the call produced a reply
//   - latency: time spent on the call
//   - errorCode: the upstream error code on failure; empty becomes "unknown"
func (c *Collector) RecordAttempt(method string, success bool, latency time.Duration, errorCode string) {
	if !c.Enabled() {
		return
	}

	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.upstream.RecordAttempt(method, outcome, latency)

	if success {
		return
	}
	if errorCode == "" {
		errorCode = "unknown"
	}
	if !c.errorCodes.Allow(errorCode) {
		errorCode = OverflowLabel
	}
	c.upstream.RecordError(method, errorCode)
}

// RecordTokenExchange records one identity token exchange.
func (c *Collector) RecordTokenExchange(success bool) {
	if !c.Enabled() {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.upstream.RecordTokenExchange(outcome)
}

// CardinalityLimiter caps the number of distinct values admitted for a
// label. Values seen before the cap stay allowed.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label value.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, exists := cl.current[value]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
