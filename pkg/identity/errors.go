package identity

import "fmt"

// AuthError is returned when a bearer credential could not be obtained: the
// token endpoint answered non-2xx or without an access token, or could not
// be reached at all.
type AuthError struct {
	// StatusCode is the token endpoint's HTTP status (0 if no response)
	StatusCode int

	// Message is the endpoint's error_description or error, or
	// "iam_status_<code>" when the body carried neither, or the transport
	// error text
	Message string

	// Cause is the underlying transport error (if any)
	Cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("token exchange failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("token exchange failed: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *AuthError) Unwrap() error {
	return e.Cause
}
