// Package proxy holds the HTTP plumbing shared by the handlers: request body
// decoding, JSON response writing and the mapping from service errors to
// status codes and error envelopes.
//
// Subpackages:
//
//   - handlers: the /chat, /health and /version endpoints
//   - middleware: request ids, access logging, panic recovery and CORS
//   - types: the error envelope written for every non-200 response
//
// # Error mapping
//
// HandleError converts an error returned by the chat service:
//
//	*chat.ConfigurationError  400 {"error": "Backend not configured", "details": {"missing": [...]}}
//	*chat.ValidationError     400 {"error": "<message>"}
//	*RequestError             its own status (400 invalid body, 413 body too large)
//	anything else             500 {"error": "Server error", "details": {"message": "..."}}
//
// Upstream and authentication failures never reach HandleError: the chat
// service turns them into a 200 fallback reply.
package proxy
