package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/parley/pkg/chat"
	"mercator-hq/parley/pkg/proxy/types"
)

// DefaultMaxBodyBytes bounds a chat request body when no limit is given.
const DefaultMaxBodyBytes = 1 << 20

// ParseChatRequest decodes a chat request body of at most maxBytes bytes.
// An empty body decodes to an empty request, which chat handling then
// rejects for its missing message.
func ParseChatRequest(r *http.Request, maxBytes int64) (*chat.Request, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, &RequestError{
			StatusCode: http.StatusRequestEntityTooLarge,
			Message:    types.MessageBodyTooLarge,
			Detail:     fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
		}
	}

	var req chat.Request
	if len(body) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &RequestError{
				StatusCode: http.StatusBadRequest,
				Message:    types.MessageInvalidBody,
				Detail:     fmt.Sprintf("field %q must be a %s", typeErr.Field, typeErr.Type),
			}
		}
		return nil, &RequestError{
			StatusCode: http.StatusBadRequest,
			Message:    types.MessageInvalidBody,
			Detail:     fmt.Sprintf("invalid JSON: %v", err),
		}
	}
	return &req, nil
}

// RequestError represents a request body that could not be read as a chat
// request.
type RequestError struct {
	StatusCode int
	Message    string
	Detail     string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// ToErrorResponse converts a RequestError to an error body.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	if e.Detail == "" {
		return types.NewErrorResponse(e.Message, nil)
	}
	return types.NewErrorResponse(e.Message, types.MessageDetails{Message: e.Detail})
}
