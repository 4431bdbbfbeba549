// Package tracing provides OpenTelemetry tracing for Parley.
//
// Each chat request produces a "chat.handle" span with children for the
// token exchange ("identity.acquire_token") and for every model call
// ("upstream.chat", "upstream.generation", "upstream.generation-instruct").
// Spans carry the model, HTTP status and upstream error code, never the
// message text or credentials.
//
// Tracing is off by default; New then returns a noop tracer. When enabled,
// spans are exported over OTLP/gRPC and W3C Trace Context is extracted from
// incoming requests by HTTPMiddleware.
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: otel-collector:4317
//	    sampler: ratio
//	    sample_ratio: 0.1
package tracing
