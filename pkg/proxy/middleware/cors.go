package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"mercator-hq/parley/pkg/config"
)

// exposedHeaders are readable by browser clients.
var exposedHeaders = []string{RequestIDHeader}

// CORSMiddleware adds Cross-Origin Resource Sharing headers to responses and
// answers preflight OPTIONS requests with 204.
//
// Configuration:
//
//	proxy:
//	  cors:
//	    allowed_origins: ["https://chat.example.com"]
//	    allowed_methods: ["GET", "POST", "OPTIONS"]
//	    allowed_headers: ["Content-Type"]
//	    max_age: 10m
//
// Example usage:
//
//	handler = CORSMiddleware(cfg.Proxy.CORS)(handler)
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.IsEnabled() {
			return next
		}
		wildcard := slices.Contains(cfg.AllowedOrigins, "*")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(cfg.AllowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Expose-Headers", strings.Join(exposedHeaders, ", "))

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if len(cfg.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				}
				if len(cfg.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				}
				if seconds := int(cfg.MaxAge.Seconds()); seconds > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(seconds))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
