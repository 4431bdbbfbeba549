package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mercator-hq/parley/pkg/telemetry/logging"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLength bounds client-supplied request IDs.
	maxRequestIDLength = 128
)

// RequestIDMiddleware assigns each request an ID and echoes it in the
// X-Request-ID response header. A client-supplied X-Request-ID is reused.
//
// The ID is stored with logging.WithRequestID, so every record logged with
// the request context carries it as request_id.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := sanitizeRequestID(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateRequestID returns an 8-character correlation id.
func generateRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// sanitizeRequestID drops client ids that are too long or contain anything
// but printable ASCII, so they are safe to log and echo.
func sanitizeRequestID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return ""
		}
	}
	return id
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}
