// Package telemetry groups the observability packages.
//
//   - logging: slog construction from config, request ids in every record,
//     credential redaction
//   - metrics: Prometheus counters and histograms for chat requests, upstream
//     attempts and token exchanges
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
// Every component accepts these through functional options and works with
// nil or noop values, so tests can leave telemetry out.
package telemetry
