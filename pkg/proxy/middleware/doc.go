// Package middleware provides HTTP middleware for cross-cutting concerns:
// request IDs, request logging, panic recovery and CORS.
//
// # Middleware Chain
//
// The server wraps its mux as follows (outermost first):
//
//	RequestID -> tracing -> Logging -> Recovery -> CORS -> mux
//
// RequestID runs first so every later record carries request_id. Recovery
// runs inside Logging so a recovered panic is logged with its 500 status.
//
// # Request ID
//
// RequestIDMiddleware reuses a well-formed client X-Request-ID or generates
// an 8-character id, stores it with logging.WithRequestID and echoes it:
//
//	X-Request-ID: 3f9a1c2b
//
// # Recovery
//
// RecoveryMiddleware turns a panic into the same body as any other internal
// failure:
//
//	HTTP/1.1 500 Internal Server Error
//	{"error": "Server error", "details": {"message": "..."}}
package middleware
