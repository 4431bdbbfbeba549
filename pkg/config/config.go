package config

import "time"

// Config is the root configuration structure for Parley.
// It contains the HTTP server settings, the upstream model service and
// identity provider settings, chat behaviour, and telemetry.
type Config struct {
	// Proxy contains HTTP server configuration including listen address,
	// timeouts, and CORS.
	Proxy ProxyConfig `yaml:"proxy"`

	// Upstream contains the model service connection settings. The API key,
	// project id and base URL are the values the service cannot run without.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Identity contains the token exchange settings used to turn the API key
	// into a short-lived bearer credential.
	Identity IdentityConfig `yaml:"identity"`

	// Chat contains request handling behaviour such as the fallback reply.
	Chat ChatConfig `yaml:"chat"`

	// Telemetry contains configuration for logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains HTTP server configuration.
type ProxyConfig struct {
	// ListenAddress is the address the server listens on (e.g., "127.0.0.1:5000").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must cover the token exchange plus up to three model calls.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of an accepted chat request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS controls cross-origin access for browser clients.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains cross-origin resource sharing settings.
type CORSConfig struct {
	// Enabled toggles the CORS middleware. Nil means enabled.
	Enabled *bool `yaml:"enabled"`

	// AllowedOrigins lists origins allowed to call the API. "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed request methods.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is how long a preflight response may be cached.
	MaxAge time.Duration `yaml:"max_age"`
}

// IsEnabled reports whether CORS handling is on.
func (c CORSConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// UpstreamConfig contains the model service settings.
type UpstreamConfig struct {
	// BaseURL is the regional model service URL, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// APIKey is exchanged for a bearer token on every chat request.
	// Sensitive: never logged.
	APIKey string `yaml:"api_key"`

	// ProjectID is sent with every model call.
	ProjectID string `yaml:"project_id"`

	// ModelID is the default model used when a request has no override.
	ModelID string `yaml:"model_id"`

	// ChatVersion is the API version query parameter for the chat endpoint.
	ChatVersion string `yaml:"chat_version"`

	// GenerationVersion is the API version query parameter for the
	// generation endpoint.
	GenerationVersion string `yaml:"generation_version"`

	// Timeout bounds each individual model call.
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns and friends tune the shared connection pool.
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`

	// Parameters are the sampling parameters sent with every call.
	Parameters GenerationParameters `yaml:"parameters"`
}

// GenerationParameters are the decoding parameters sent to the model service.
type GenerationParameters struct {
	DecodingMethod string  `yaml:"decoding_method" json:"decoding_method"`
	MaxNewTokens   int     `yaml:"max_new_tokens" json:"max_new_tokens"`
	Temperature    float64 `yaml:"temperature" json:"temperature"`
	TopP           float64 `yaml:"top_p" json:"top_p"`
	TopK           int     `yaml:"top_k" json:"top_k"`
}

// Missing returns the environment names of the required upstream settings
// that are empty, in a stable order. An empty result means the backend is
// configured.
func (u UpstreamConfig) Missing() []string {
	var missing []string
	if u.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if u.ProjectID == "" {
		missing = append(missing, EnvProjectID)
	}
	if u.BaseURL == "" {
		missing = append(missing, EnvURL)
	}
	return missing
}

// IdentityConfig contains the token exchange settings.
type IdentityConfig struct {
	// TokenURL is the identity service token endpoint.
	TokenURL string `yaml:"token_url"`

	// GrantType is the form grant_type sent with the API key.
	GrantType string `yaml:"grant_type"`

	// Timeout bounds a single token exchange.
	Timeout time.Duration `yaml:"timeout"`
}

// ChatConfig contains request handling settings.
type ChatConfig struct {
	// FallbackMessage is returned as the reply when no upstream attempt
	// succeeds.
	FallbackMessage string `yaml:"fallback_message"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// AddSource adds source file and line to log records.
	AddSource bool `yaml:"add_source"`

	// RedactPatterns are extra regular expressions whose matches are masked
	// in log output, in addition to the built-in credential patterns.
	RedactPatterns []string `yaml:"redact_patterns"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled toggles the /metrics endpoint and collection. Nil means enabled.
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path the metrics are served on.
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets are the histogram buckets, in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`

	// MaxErrorCodes caps the distinct error_code label values.
	MaxErrorCodes int `yaml:"max_error_codes"`
}

// IsEnabled reports whether metrics are collected.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled turns on span export. Disabled tracing uses a noop tracer.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP/gRPC collector address.
	Endpoint string `yaml:"endpoint"`

	// Sampler is "always", "never", or "ratio".
	Sampler string `yaml:"sampler"`

	// SampleRatio is used when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	Timeout time.Duration `yaml:"timeout"`
}
