package types

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	// Error is a short, client-facing description
	Error string `json:"error"`

	// Details carries structured context, e.g. the missing settings
	Details any `json:"details,omitempty"`
}

// Client-facing error strings.
const (
	MessageNotConfigured    = "Backend not configured"
	MessageInvalidBody      = "Invalid request body"
	MessageBodyTooLarge     = "Request body too large"
	MessageServerError      = "Server error"
	MessageMethodNotAllowed = "Method not allowed"
)

// MissingDetails lists absent settings in a configuration error.
type MissingDetails struct {
	Missing []string `json:"missing"`
}

// MessageDetails wraps a single message.
type MessageDetails struct {
	Message string `json:"message"`
}

// NewErrorResponse creates an error response.
func NewErrorResponse(message string, details any) *ErrorResponse {
	return &ErrorResponse{Error: message, Details: details}
}

// NewNotConfiguredError creates the response for absent upstream settings.
func NewNotConfiguredError(missing []string) *ErrorResponse {
	return NewErrorResponse(MessageNotConfigured, MissingDetails{Missing: missing})
}

// NewServerError creates the response for internal failures.
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(MessageServerError, MessageDetails{Message: message})
}
