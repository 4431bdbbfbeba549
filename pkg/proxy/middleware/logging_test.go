package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/telemetry/logging"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetStartTime(r.Context()).IsZero() {
			t.Error("expected start time in context")
		}
		w.WriteHeader(http.StatusBadRequest)
	})
	wrapped := RequestIDMiddleware(LoggingMiddleware(logger)(handler))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set(RequestIDHeader, "abc12345")
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "request completed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for 4xx", record["level"])
	}
	if record["status"] != float64(http.StatusBadRequest) {
		t.Errorf("status = %v", record["status"])
	}
	if record["request_id"] != "abc12345" {
		t.Errorf("request_id = %v", record["request_id"])
	}
}
