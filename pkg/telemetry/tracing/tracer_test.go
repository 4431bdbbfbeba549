package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/parley/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewWithProvider(tp), recorder
}

func TestNew_Disabled(t *testing.T) {
	tr, err := New(config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Enabled() {
		t.Error("disabled config must give a disabled tracer")
	}

	ctx, span := tr.Start(context.Background(), SpanChatHandle)
	span.End()
	if TraceID(ctx) != "" {
		t.Error("noop span must not carry a valid trace id")
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of noop tracer failed: %v", err)
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	_, err := New(config.TracingConfig{Enabled: true, Sampler: "sometimes", Endpoint: "localhost:4317"}, "test")
	if err == nil {
		t.Error("expected sampler error")
	}
}

func TestNilTracer(t *testing.T) {
	var tr *Tracer
	_, span := tr.Start(context.Background(), "x")
	span.End()
	if tr.Enabled() {
		t.Error("nil tracer must be disabled")
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTracer_ParentChild(t *testing.T) {
	tr, recorder := newRecordingTracer()

	ctx, parent := tr.Start(context.Background(), SpanChatHandle)
	_, child := tr.Start(ctx, UpstreamSpanName("chat"))
	SetAttemptAttributes(child, "ibm/granite-13b-chat-v2", 400, "model_not_supported")
	SetError(child, errors.New("model not supported"))
	child.End()
	SetResultAttributes(parent, "chat->generation", "", false)
	parent.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	childSpan, parentSpan := spans[0], spans[1]
	if childSpan.Name() != "upstream.chat" {
		t.Errorf("unexpected child name %q", childSpan.Name())
	}
	if childSpan.Parent().SpanID() != parentSpan.SpanContext().SpanID() {
		t.Error("child span is not linked to parent")
	}
	if childSpan.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", childSpan.Status().Code)
	}

	attrs := map[string]any{}
	for _, kv := range childSpan.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["parley.error_code"] != "model_not_supported" {
		t.Errorf("missing error code attribute: %v", attrs)
	}
	if attrs["http.response.status_code"] != int64(400) {
		t.Errorf("missing status attribute: %v", attrs)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{"random", 0, true},
	}
	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}
}

func TestHTTPMiddleware_ExtractsTraceParent(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var got trace.SpanContext
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = trace.SpanContextFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id not extracted, got %s", got.TraceID())
	}
	if !got.IsRemote() {
		t.Error("extracted span context should be remote")
	}
}
