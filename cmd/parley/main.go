// Parley is a chat proxy for a watsonx-style model service.
//
// It accepts a chat message and a language preference, exchanges the
// configured API key for a short-lived bearer token, and asks the model
// service for a reply, falling back across the chat and generation
// endpoints (and from a Granite chat model to its instruct variant) before
// answering with a fixed fallback message.
//
// Usage:
//
//	# Start the server (reads config.yaml and .env when present)
//	parley run
//
//	# Override the listen address
//	parley run --listen 0.0.0.0:8080
//
//	# Check that the configuration loads and the credentials are set
//	parley validate
//
//	# Show version information
//	parley version
package main

func main() {
	Execute()
}
