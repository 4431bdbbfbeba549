package chat

import "encoding/json"

// Request is a chat request as received from a client.
type Request struct {
	// Message is the user's message; surrounding whitespace is ignored
	Message string `json:"message"`

	// Language is the reply language code; defaults to "en"
	Language string `json:"language,omitempty"`

	// ModelID overrides the configured default model
	ModelID string `json:"model_id,omitempty"`
}

// Response is the reply envelope returned to clients. A fallback response
// still carries a displayable reply.
type Response struct {
	Reply     string          `json:"reply"`
	Fallback  bool            `json:"fallback,omitempty"`
	Method    string          `json:"method"`
	UsedModel string          `json:"usedModel,omitempty"`
	Language  string          `json:"language"`
	Error     string          `json:"error,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// Envelope error strings.
const (
	ErrorAuthentication  = "Authentication failed"
	ErrorUpstream        = "Error from Watsonx API"
	ErrorMessageRequired = "Message is required"
)

// MethodAuth labels a fallback caused by a failed token exchange.
const MethodAuth = "auth"
