package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/proxy/handlers"
	"mercator-hq/parley/pkg/proxy/middleware"
	"mercator-hq/parley/pkg/telemetry/metrics"
	"mercator-hq/parley/pkg/telemetry/tracing"
)

// Dependencies are the components the server routes requests to.
type Dependencies struct {
	// Chat answers POST /chat.
	Chat handlers.ChatService

	// Config is read on every health check. Nil uses config.GetConfig.
	Config func() *config.Config

	// Metrics is served on the configured metrics path when enabled.
	Metrics *metrics.Collector

	// Version is served on GET /version.
	Version handlers.VersionInfo

	Logger *slog.Logger
}

// Server is the HTTP front end of the chat proxy.
type Server struct {
	config       config.ProxyConfig
	metricsCfg   config.MetricsConfig
	deps         Dependencies
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	stopOnce     sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
}

// NewServer creates a server for cfg. Listener and timeout settings are read
// once; changing them requires a restart.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if deps.Config == nil {
		deps.Config = config.GetConfig
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:       cfg.Proxy,
		metricsCfg:   cfg.Telemetry.Metrics,
		deps:         deps,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start listens on the configured address and serves until ctx is cancelled,
// Stop is called or the listener fails. It shuts the server down gracefully
// before returning.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting chat server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Stop asks a running Start to shut down and return.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.shutdownChan) })
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("chat server stopped")
	})

	return shutdownErr
}

// Handler returns the routed handler wrapped in the middleware chain.
//
// Outermost first: request id, trace extraction, access log, panic
// recovery, CORS. Recovery sits inside the access log so a recovered panic
// is logged with its 500 status and request id.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()

	handler = middleware.CORSMiddleware(s.config.CORS)(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = tracing.HTTPMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	maxBody := s.config.MaxBodyBytes
	chatHandler := handlers.NewChatHandler(s.deps.Chat, maxBody, s.logger)
	healthHandler := handlers.NewHealthHandler(s.deps.Config, s.logger)

	mux.Handle("/chat", chatHandler)
	mux.Handle("/api/chat", chatHandler)
	mux.Handle("/health", healthHandler)
	mux.Handle("/api/health", healthHandler)
	mux.Handle("/version", handlers.NewVersionHandler(s.deps.Version))

	if s.deps.Metrics.Enabled() {
		path := s.metricsCfg.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle(path, s.deps.Metrics.Handler())
	}

	return mux
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listener address once Start has listened, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
