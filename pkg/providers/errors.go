package providers

import (
	"fmt"
	"time"
)

// ProviderError represents a transport-level failure talking to an upstream
// service: the request could not be built or sent, or the body could not be
// read.
type ProviderError struct {
	// Provider is the name of the upstream service
	Provider string

	// StatusCode is the HTTP status code (0 if no response was received)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a request that exceeded its deadline, either the
// client timeout or the caller's context.
type TimeoutError struct {
	// Provider is the name of the upstream service
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// Unwrap returns the underlying error for error chain support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response body that is not valid JSON.
type ParseError struct {
	// Provider is the name of the upstream service
	Provider string

	// RawResponse is the raw response body that failed to parse, truncated
	RawResponse string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q returned a response that is not valid JSON", e.Provider)
}

// UpstreamError describes one failed model call: a non-2xx status, an
// unparsable body, a body without reply text, or a transport failure. It is
// what drives the fallback chain and is only reported to clients once every
// attempt has failed.
type UpstreamError struct {
	// Method is the method label of the failed attempt
	Method Method

	// ModelID is the model the attempt targeted
	ModelID string

	// StatusCode is the HTTP status (0 if no response was received)
	StatusCode int

	// Code is the upstream error code, if the body carried one
	Code string

	// Message is a human-readable description
	Message string

	// Cause is the underlying transport or parse error (if any)
	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s call for model %q failed", e.Method, e.ModelID)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
