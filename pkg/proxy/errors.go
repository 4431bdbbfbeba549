package proxy

import (
	"errors"
	"net/http"

	"mercator-hq/parley/pkg/chat"
	"mercator-hq/parley/pkg/proxy/types"
)

// HandleError maps an error from request parsing or chat handling to a
// status code and error body.
//
//	400  *chat.ConfigurationError, *chat.ValidationError, *RequestError
//	413  *RequestError for an oversized body
//	500  anything else
//
// Example usage:
//
//	if err != nil {
//	    status, errResp := HandleError(err)
//	    WriteErrorResponse(w, status, errResp)
//	    return
//	}
func HandleError(err error) (int, *types.ErrorResponse) {
	var cfgErr *chat.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest, types.NewNotConfiguredError(cfgErr.Missing)
	}

	var valErr *chat.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, types.NewErrorResponse(valErr.Message, nil)
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode, reqErr.ToErrorResponse()
	}

	return http.StatusInternalServerError, types.NewServerError(err.Error())
}
