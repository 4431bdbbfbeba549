package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "listen address without port",
			mutate: func(c *Config) { c.Proxy.ListenAddress = "localhost" },
			field:  "proxy.listen_address",
		},
		{
			name:   "relative base url",
			mutate: func(c *Config) { c.Upstream.BaseURL = "ml.cloud.ibm.com" },
			field:  "upstream.base_url",
		},
		{
			name:   "blank model",
			mutate: func(c *Config) { c.Upstream.ModelID = "   " },
			field:  "upstream.model_id",
		},
		{
			name:   "unknown decoding method",
			mutate: func(c *Config) { c.Upstream.Parameters.DecodingMethod = "beam" },
			field:  "upstream.parameters.decoding_method",
		},
		{
			name:   "temperature too high",
			mutate: func(c *Config) { c.Upstream.Parameters.Temperature = 3 },
			field:  "upstream.parameters.temperature",
		},
		{
			name:   "top_p out of range",
			mutate: func(c *Config) { c.Upstream.Parameters.TopP = 1.5 },
			field:  "upstream.parameters.top_p",
		},
		{
			name:   "bad token url",
			mutate: func(c *Config) { c.Identity.TokenURL = "not a url" },
			field:  "identity.token_url",
		},
		{
			name:   "metrics path",
			mutate: func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			field:  "telemetry.metrics.path",
		},
		{
			name:   "sampler",
			mutate: func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" },
			field:  "telemetry.tracing.sampler",
		},
		{
			name:   "sample ratio",
			mutate: func(c *Config) { c.Telemetry.Tracing.SampleRatio = 2 },
			field:  "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidate_MissingCredentialsAreNotErrors(t *testing.T) {
	cfg := Default()
	cfg.Upstream.APIKey = ""
	cfg.Upstream.ProjectID = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("missing credentials must not fail validation: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") || !strings.Contains(msg, "a: bad") || !strings.Contains(msg, "b: worse") {
		t.Errorf("unexpected message %q", msg)
	}
}
