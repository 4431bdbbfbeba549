package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/parley/pkg/proxy"
	"mercator-hq/parley/pkg/proxy/types"
)

// ChatHandler serves POST /chat and /api/chat.
type ChatHandler struct {
	Service      ChatService
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc ChatService, maxBodyBytes int64, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{Service: svc, MaxBodyBytes: maxBodyBytes, Logger: logger}
}

// ServeHTTP implements http.Handler.
//
// Replies, including fallback replies, are 200. Configuration and
// validation problems are 400; anything unexpected is 500.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, r, http.StatusMethodNotAllowed, types.NewErrorResponse(types.MessageMethodNotAllowed, nil))
		return
	}

	req, err := proxy.ParseChatRequest(r, h.MaxBodyBytes)
	if err != nil {
		h.Logger.WarnContext(ctx, "failed to parse chat request", "error", err)
		status, errResp := proxy.HandleError(err)
		h.writeError(w, r, status, errResp)
		return
	}

	resp, err := h.Service.Handle(ctx, req)
	if err != nil {
		status, errResp := proxy.HandleError(err)
		if status >= http.StatusInternalServerError {
			h.Logger.ErrorContext(ctx, "chat request failed", "error", err)
		}
		h.writeError(w, r, status, errResp)
		return
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		h.Logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, r *http.Request, status int, errResp *types.ErrorResponse) {
	if err := proxy.WriteErrorResponse(w, status, errResp); err != nil {
		h.Logger.ErrorContext(r.Context(), "failed to write error response", "error", err)
	}
}
