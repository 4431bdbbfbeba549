package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/proxy"
	"mercator-hq/parley/pkg/proxy/types"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing"`
}

// HealthHandler reports liveness and whether the upstream settings are
// complete. It never calls the network.
type HealthHandler struct {
	Config func() *config.Config
	Logger *slog.Logger
}

// NewHealthHandler creates a health handler reading the configuration from
// source on every request.
func NewHealthHandler(source func() *config.Config, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{Config: source, Logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		_ = proxy.WriteErrorResponse(w, http.StatusMethodNotAllowed, types.NewErrorResponse(types.MessageMethodNotAllowed, nil))
		return
	}

	cfg := h.Config()
	if cfg == nil {
		cfg = config.Default()
	}
	missing := cfg.Upstream.Missing()
	if missing == nil {
		missing = []string{}
	}

	resp := HealthResponse{
		Status:  "ok",
		Ready:   len(missing) == 0,
		Missing: missing,
	}
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		h.Logger.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}

// VersionInfo is the body of GET /version.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// VersionHandler serves build information.
type VersionHandler struct {
	Info VersionInfo
}

// NewVersionHandler creates a version handler.
func NewVersionHandler(info VersionInfo) *VersionHandler {
	return &VersionHandler{Info: info}
}

// ServeHTTP implements http.Handler.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = proxy.WriteJSONResponse(w, http.StatusOK, h.Info)
}
