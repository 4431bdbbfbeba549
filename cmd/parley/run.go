package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/parley/pkg/chat"
	"mercator-hq/parley/pkg/cli"
	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/identity"
	"mercator-hq/parley/pkg/providers"
	"mercator-hq/parley/pkg/providers/watsonx"
	"mercator-hq/parley/pkg/server"
	"mercator-hq/parley/pkg/telemetry/logging"
	"mercator-hq/parley/pkg/telemetry/metrics"
	"mercator-hq/parley/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the chat server",
	Long: `Start the chat server with the specified configuration.

The server starts even when API_KEY, PROJECT_ID or URL is missing: /health
reports the missing keys and /chat answers 400 "Backend not configured" until
they are set. With --watch (the default) edits to the config file or .env are
picked up without a restart.

Examples:
  # Start with default config
  parley run

  # Start with custom config
  parley run --config /etc/parley/config.yaml

  # Override listen address
  parley run --listen 0.0.0.0:8080

  # Validate config without starting server
  parley run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", true, "reload configuration when the config or .env file changes")
}

// applyRunOverrides applies command-line overrides. It runs on the initial
// configuration and on every reload so flags keep precedence.
func applyRunOverrides(cfg *config.Config) {
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	config.DotEnvFile = envFile
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	applyRunOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		if missing := cfg.Upstream.Missing(); len(missing) > 0 {
			fmt.Fprintf(out, "! Missing required settings: %v\n", missing)
		}
		return nil
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	tracer, err := tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	service, closeTransports := newChatService(cfg, collector, tracer, logger)
	defer closeTransports()

	if runFlags.watch && cfgFile != "" {
		watcher, err := startWatcher(ctx, cfgFile, logger)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	if missing := cfg.Upstream.Missing(); len(missing) > 0 {
		logger.Warn("backend not configured, chat requests will be rejected", "missing", missing)
	}

	srv := server.NewServer(cfg, server.Dependencies{
		Chat:    service,
		Config:  config.GetConfig,
		Metrics: collector,
		Version: buildInfo(),
		Logger:  logger,
	})

	fmt.Fprintf(out, "Parley v%s\n", Version)
	fmt.Fprintf(out, "✓ Listening on %s (chat: /api/chat, health: /api/health)\n", cfg.Proxy.ListenAddress)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// newChatService builds the request pipeline. Identity settings and the
// connection pools are fixed at startup; upstream settings are read from the
// global configuration on every request.
func newChatService(cfg *config.Config, collector *metrics.Collector, tracer *tracing.Tracer, logger *slog.Logger) (*chat.Service, func()) {
	identityTransport := providers.NewHTTPTransport(providers.TransportConfig{
		Name:    identity.ProviderName,
		Timeout: cfg.Identity.Timeout,
		Logger:  logger,
	})
	upstreamTransport := providers.NewHTTPTransport(providers.TransportConfig{
		Name:                watsonx.ProviderName,
		Timeout:             cfg.Upstream.Timeout,
		MaxIdleConns:        cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Upstream.IdleConnTimeout,
		Logger:              logger,
	})

	tokens := identity.NewProvider(cfg.Identity, identityTransport,
		identity.WithMetrics(collector),
		identity.WithTracer(tracer),
		identity.WithLogger(logger),
	)
	client := watsonx.NewClient(upstreamTransport,
		watsonx.WithMetrics(collector),
		watsonx.WithTracer(tracer),
		watsonx.WithLogger(logger),
	)

	service := chat.NewService(tokens, chat.WatsonxCallers(client),
		chat.WithConfigSource(config.GetConfig),
		chat.WithMetrics(collector),
		chat.WithTracer(tracer),
		chat.WithLogger(logger),
	)

	return service, func() {
		identityTransport.CloseIdleConnections()
		upstreamTransport.CloseIdleConnections()
	}
}

// startWatcher reloads the global configuration when the config file or the
// dotenv file changes. A reload that fails validation keeps the previous
// configuration.
func startWatcher(ctx context.Context, path string, logger *slog.Logger) (*config.Watcher, error) {
	watcher, err := config.NewWatcher(path, 0, logger)
	if err != nil {
		return nil, err
	}

	reload := func() error {
		cfg, err := config.LoadConfigWithEnvOverrides(path)
		if err != nil {
			return err
		}
		applyRunOverrides(cfg)
		if err := config.Validate(cfg); err != nil {
			return err
		}
		config.SetConfig(cfg)
		return nil
	}

	go func() {
		if err := watcher.Watch(ctx, reload); err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()
	return watcher, nil
}
