package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/telemetry/logging"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name        string
		apiKey      string
		projectID   string
		wantReady   bool
		wantMissing []string
	}{
		{"configured", "key", "proj", true, []string{}},
		{"missing key", "", "proj", false, []string{"API_KEY"}},
		{"missing both", "", "", false, []string{"API_KEY", "PROJECT_ID"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Upstream.APIKey = tt.apiKey
			cfg.Upstream.ProjectID = tt.projectID
			h := NewHealthHandler(func() *config.Config { return cfg }, logging.Discard())

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var body HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != "ok" || body.Ready != tt.wantReady {
				t.Errorf("body = %+v", body)
			}
			if !reflect.DeepEqual(body.Missing, tt.wantMissing) {
				t.Errorf("missing = %v, want %v", body.Missing, tt.wantMissing)
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	h := NewHealthHandler(config.Default, logging.Discard())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	h := NewVersionHandler(VersionInfo{Version: "1.2.3", Commit: "abc"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	var body VersionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Version != "1.2.3" || body.Commit != "abc" {
		t.Errorf("body = %+v", body)
	}
}
