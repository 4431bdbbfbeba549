// Package config provides configuration management for Parley.
//
// Configuration comes from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (see ApplyDefaults)
//  2. An optional YAML file
//  3. Environment variables, after a .env file has been loaded into the
//     process environment
//
// # Environment Variables
//
// The upstream settings use the bare names the model service documents:
//
//   - API_KEY overrides upstream.api_key
//   - PROJECT_ID overrides upstream.project_id
//   - MODEL_ID overrides upstream.model_id
//   - URL overrides upstream.base_url
//   - PORT sets proxy.listen_address to 0.0.0.0:PORT
//
// Other tunables follow PARLEY_SECTION_FIELD, for example
// PARLEY_TELEMETRY_LOGGING_LEVEL or PARLEY_PROXY_LISTEN_ADDRESS.
//
// # Missing Credentials
//
// A configuration without API_KEY or PROJECT_ID is still valid. The server
// starts and reports UpstreamConfig.Missing through /health, and chat
// requests are answered with 400 "Backend not configured".
//
// # Global Configuration
//
// Initialize loads the configuration once at startup and stores it as a
// process-wide singleton; GetConfig returns it. ReloadConfig and Watcher
// replace it atomically, and only when the new configuration is valid.
//
//	if err := config.Initialize("parley.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
package config
