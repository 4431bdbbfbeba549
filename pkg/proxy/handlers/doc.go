// Package handlers provides the HTTP endpoint handlers.
//
//	POST /chat, /api/chat      ChatHandler
//	GET  /health, /api/health  HealthHandler
//	GET  /version              VersionHandler
//
// # Chat
//
// ChatHandler decodes the body into a chat.Request and passes it to the chat
// service. Every reply the service produces, including fallback replies, is
// written with status 200:
//
//	{"reply": "Hello!", "method": "chat", "language": "en"}
//
//	{"reply": "Sorry, ...", "fallback": true, "method": "chat->generation",
//	 "language": "en", "error": "Error from Watsonx API", "details": {...}}
//
// Errors are mapped by proxy.HandleError:
//
//	400  {"error": "Backend not configured", "details": {"missing": ["API_KEY"]}}
//	400  {"error": "Message is required"}
//	500  {"error": "Server error", "details": {"message": "..."}}
//
// # Health
//
// HealthHandler reports readiness from the current configuration only:
//
//	{"status": "ok", "ready": false, "missing": ["PROJECT_ID"]}
package handlers
