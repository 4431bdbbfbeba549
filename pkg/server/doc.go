// Package server wires the chat handlers, middleware and metrics endpoint
// into an http.Server and manages its lifecycle.
//
// Routes:
//
//	POST /chat, /api/chat
//	GET  /health, /api/health
//	GET  /version
//	GET  /metrics (configurable path, only when metrics are enabled)
//
// # Usage
//
//	srv := server.NewServer(cfg, server.Dependencies{
//	    Chat:    chatService,
//	    Metrics: collector,
//	    Version: handlers.VersionInfo{Version: version},
//	    Logger:  logger,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled or Stop is called, then drains
// in-flight requests for up to proxy.shutdown_timeout.
package server
