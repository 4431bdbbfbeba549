package providers

import (
	"encoding/json"
	"time"
)

// Method labels which call produced (or failed to produce) a reply. The
// labels are returned to clients verbatim.
type Method string

const (
	// MethodChat is the structured chat endpoint.
	MethodChat Method = "chat"

	// MethodGeneration is the plain generation endpoint with the requested model.
	MethodGeneration Method = "generation"

	// MethodGenerationInstruct is the generation endpoint with the instruct
	// variant substituted for a chat model.
	MethodGenerationInstruct Method = "generation-instruct"

	// MethodChatThenGeneration labels a chain where chat and generation both
	// failed and no model substitution applied. It never names a single call.
	MethodChatThenGeneration Method = "chat->generation"
)

// EndpointKind is the upstream endpoint a method calls.
type EndpointKind string

const (
	EndpointChat       EndpointKind = "chat"
	EndpointGeneration EndpointKind = "generation"
)

// Endpoint returns the endpoint a method calls.
func (m Method) Endpoint() EndpointKind {
	if m == MethodChat {
		return EndpointChat
	}
	return EndpointGeneration
}

// Attempt is the normalized outcome of one upstream model call. Attempts are
// created, consumed and discarded within a single chat request.
type Attempt struct {
	// Method is the method label of this call
	Method Method

	// ModelID is the model the call targeted
	ModelID string

	// StatusCode is the HTTP status (0 if no response was received)
	StatusCode int

	// Reply is the normalized reply text; non-empty exactly when the call
	// succeeded
	Reply string

	// ErrorCode is the upstream error code on failure, if any
	ErrorCode string

	// Details is the raw JSON error object on failure: the body's "error"
	// member when present, otherwise the whole body, otherwise a synthesized
	// {"message": ...} object
	Details json.RawMessage

	// HasErrorObject reports whether the body carried an "error" member.
	// Error code selection prefers attempts that did.
	HasErrorObject bool

	// Err is the failure, typically an *UpstreamError
	Err error

	// Latency is the time spent on the call
	Latency time.Duration
}

// Succeeded reports whether the attempt produced reply text.
func (a *Attempt) Succeeded() bool {
	return a != nil && a.Err == nil && a.Reply != ""
}
