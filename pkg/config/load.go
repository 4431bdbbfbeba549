package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names understood without the PARLEY_ prefix. These
// are the names the model service documentation uses, so existing .env
// files keep working.
const (
	EnvAPIKey    = "API_KEY"
	EnvProjectID = "PROJECT_ID"
	EnvModelID   = "MODEL_ID"
	EnvURL       = "URL"
	EnvPort      = "PORT"
)

// DotEnvFile is the dotenv file read before the environment is consulted.
// Variables already present in the process environment win over the file.
var DotEnvFile = ".env"

var (
	dotEnvMu    sync.Mutex
	dotEnvOwned = map[string]bool{}
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from an optional YAML file
// and applies environment variable overrides. A missing file (or an empty
// path) yields the defaults. The dotenv file is loaded first so its values
// take part in the overrides.
//
// The loading sequence is:
// 1. Load DotEnvFile into the process environment (variables it did not set win)
// 2. Load YAML from file, if present, and apply defaults
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		default:
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat dotenv file %q: %w", path, err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to load dotenv file %q: %w", path, err)
	}

	dotEnvMu.Lock()
	defer dotEnvMu.Unlock()
	for key, value := range values {
		// Variables set by an earlier load are ours to replace, so edits to
		// the file take effect on reload. Anything else in the environment wins.
		if _, set := os.LookupEnv(key); set && !dotEnvOwned[key] {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s from dotenv file: %w", key, err)
		}
		dotEnvOwned[key] = true
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Upstream credentials use their bare names (API_KEY, PROJECT_ID, MODEL_ID,
// URL, PORT); everything else uses PARLEY_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Upstream overrides
	if val := os.Getenv(EnvAPIKey); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv(EnvProjectID); val != "" {
		cfg.Upstream.ProjectID = val
	}
	if val := os.Getenv(EnvModelID); val != "" {
		cfg.Upstream.ModelID = val
	}
	if val := os.Getenv(EnvURL); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("PARLEY_UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}

	// Proxy overrides. PORT binds every interface, matching how platform
	// runtimes inject it.
	if val := os.Getenv(EnvPort); val != "" {
		cfg.Proxy.ListenAddress = "0.0.0.0:" + val
	}
	if val := os.Getenv("PARLEY_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv("PARLEY_PROXY_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ReadTimeout = d
		}
	}
	if val := os.Getenv("PARLEY_PROXY_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.WriteTimeout = d
		}
	}

	// Identity overrides
	if val := os.Getenv("PARLEY_IDENTITY_TOKEN_URL"); val != "" {
		cfg.Identity.TokenURL = val
	}
	if val := os.Getenv("PARLEY_IDENTITY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Identity.Timeout = d
		}
	}

	// Chat overrides
	if val := os.Getenv("PARLEY_CHAT_FALLBACK_MESSAGE"); val != "" {
		cfg.Chat.FallbackMessage = val
	}

	// Telemetry overrides
	if val := os.Getenv("PARLEY_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PARLEY_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PARLEY_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("PARLEY_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("PARLEY_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("PARLEY_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
