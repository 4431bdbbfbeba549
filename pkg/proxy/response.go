package proxy

import (
	"encoding/json"
	"net/http"

	"mercator-hq/parley/pkg/proxy/types"
)

// WriteJSONResponse writes data as a JSON response with the given status.
// HTML characters are not escaped, so labels like "chat->generation" go out
// verbatim.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// WriteErrorResponse writes an error body with the given status.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, statusCode, errResp)
}
