// Package types defines the error bodies written by the HTTP surface.
//
// Successful and fallback chat replies use chat.Response. Everything else,
// from a missing configuration to a recovered panic, is an ErrorResponse:
//
//	{"error": "Backend not configured", "details": {"missing": ["API_KEY"]}}
//	{"error": "Message is required"}
//	{"error": "Server error", "details": {"message": "..."}}
package types
