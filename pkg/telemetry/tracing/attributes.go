package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanChatHandle     = "chat.handle"
	SpanAcquireToken   = "identity.acquire_token"
	SpanUpstreamPrefix = "upstream."
)

// Attribute keys.
const (
	AttrRequestID  = attribute.Key("parley.request_id")
	AttrLanguage   = attribute.Key("parley.language")
	AttrModel      = attribute.Key("parley.model")
	AttrUsedModel  = attribute.Key("parley.used_model")
	AttrMethod     = attribute.Key("parley.method")
	AttrFallback   = attribute.Key("parley.fallback")
	AttrErrorCode  = attribute.Key("parley.error_code")
	AttrStatusCode = attribute.Key("http.response.status_code")
	AttrMessageLen = attribute.Key("parley.message_length")
)

// UpstreamSpanName returns the span name for a model call with the given
// method label, e.g. "upstream.chat".
func UpstreamSpanName(method string) string {
	return SpanUpstreamPrefix + method
}

// SetAttemptAttributes records the outcome of one model call on span.
func SetAttemptAttributes(span trace.Span, model string, status int, errorCode string) {
	attrs := []attribute.KeyValue{
		AttrModel.String(model),
		AttrStatusCode.Int(status),
	}
	if errorCode != "" {
		attrs = append(attrs, AttrErrorCode.String(errorCode))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes records how a chat request was answered.
func SetResultAttributes(span trace.Span, method, usedModel string, fallback bool) {
	attrs := []attribute.KeyValue{
		AttrMethod.String(method),
		AttrFallback.Bool(fallback),
	}
	if usedModel != "" {
		attrs = append(attrs, AttrUsedModel.String(usedModel))
	}
	span.SetAttributes(attrs...)
}
