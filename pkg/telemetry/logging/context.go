package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

// RequestIDKey is the context key for request IDs.
const RequestIDKey contextKey = "request_id"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// contextAttrs returns the context fields attached to every record logged
// with that context.
func contextAttrs(ctx context.Context) []slog.Attr {
	if id := GetRequestID(ctx); id != "" {
		return []slog.Attr{slog.String(string(RequestIDKey), id)}
	}
	return nil
}
