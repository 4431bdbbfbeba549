package chat

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when required upstream settings are absent.
// No network call is made.
type ConfigurationError struct {
	// Missing lists the absent settings by environment name
	Missing []string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("backend not configured: missing %s", strings.Join(e.Missing, ", "))
}

// ValidationError is returned for an unusable request.
type ValidationError struct {
	// Field is the offending request field
	Field string

	// Message is the client-facing message
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
