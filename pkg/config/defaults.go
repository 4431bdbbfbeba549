package config

import (
	"strings"
	"time"
)

// Default configuration values.
// These values are used when a configuration field is not set.
const (
	// Proxy defaults
	DefaultListenAddress   = "127.0.0.1:5000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 240 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1 MB
	DefaultMaxBodyBytes    = 1 << 20
	DefaultCORSMaxAge      = 10 * time.Minute

	// Upstream defaults
	DefaultBaseURL             = "https://us-south.ml.cloud.ibm.com"
	DefaultModelID             = "ibm/granite-13b-chat-v2"
	DefaultChatVersion         = "2024-03-20"
	DefaultGenerationVersion   = "2023-05-29"
	DefaultUpstreamTimeout     = 60 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Generation parameter defaults
	DefaultDecodingMethod = "sample"
	DefaultMaxNewTokens   = 200
	DefaultTemperature    = 0.7
	DefaultTopP           = 1.0
	DefaultTopK           = 50

	// Identity defaults
	DefaultTokenURL        = "https://iam.cloud.ibm.com/identity/token"
	DefaultGrantType       = "urn:ibm:params:oauth:grant-type:apikey"
	DefaultIdentityTimeout = 15 * time.Second

	// Chat defaults
	DefaultFallbackMessage = "Sorry, abhi mujhe reply generate karne me dikkat ho rahi hai. 🙏"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "parley"
	DefaultMaxErrorCodes    = 50
	DefaultTracingSampler   = "always"
	DefaultTracingRatio     = 1.0
	DefaultTracingService   = "parley"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultTracingEndpoint  = "localhost:4317"
)

// DefaultRequestDurationBuckets covers a token exchange plus up to three
// model calls.
var DefaultRequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.WriteTimeout == 0 {
		cfg.Proxy.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(&cfg.Proxy.CORS)

	// Upstream defaults
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultBaseURL
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	if cfg.Upstream.ModelID == "" {
		cfg.Upstream.ModelID = DefaultModelID
	}
	if cfg.Upstream.ChatVersion == "" {
		cfg.Upstream.ChatVersion = DefaultChatVersion
	}
	if cfg.Upstream.GenerationVersion == "" {
		cfg.Upstream.GenerationVersion = DefaultGenerationVersion
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.MaxIdleConns == 0 {
		cfg.Upstream.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Upstream.MaxIdleConnsPerHost == 0 {
		cfg.Upstream.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Upstream.IdleConnTimeout == 0 {
		cfg.Upstream.IdleConnTimeout = DefaultIdleConnTimeout
	}
	applyParameterDefaults(&cfg.Upstream.Parameters)

	// Identity defaults
	if cfg.Identity.TokenURL == "" {
		cfg.Identity.TokenURL = DefaultTokenURL
	}
	if cfg.Identity.GrantType == "" {
		cfg.Identity.GrantType = DefaultGrantType
	}
	if cfg.Identity.Timeout == 0 {
		cfg.Identity.Timeout = DefaultIdentityTimeout
	}

	// Chat defaults
	if cfg.Chat.FallbackMessage == "" {
		cfg.Chat.FallbackMessage = DefaultFallbackMessage
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}
	if cfg.Telemetry.Metrics.MaxErrorCodes == 0 {
		cfg.Telemetry.Metrics.MaxErrorCodes = DefaultMaxErrorCodes
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.Enabled && cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
}

func applyCORSDefaults(c *CORSConfig) {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultCORSMaxAge
	}
}

func applyParameterDefaults(p *GenerationParameters) {
	if p.DecodingMethod == "" {
		p.DecodingMethod = DefaultDecodingMethod
	}
	if p.MaxNewTokens == 0 {
		p.MaxNewTokens = DefaultMaxNewTokens
	}
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.TopP == 0 {
		p.TopP = DefaultTopP
	}
	if p.TopK == 0 {
		p.TopK = DefaultTopK
	}
}

// Default returns a configuration with every default applied and no
// upstream credentials.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
