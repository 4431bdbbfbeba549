package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/providers"
	"mercator-hq/parley/pkg/telemetry/metrics"
	"mercator-hq/parley/pkg/telemetry/tracing"
)

// ProviderName identifies the token endpoint in transport errors and logs.
const ProviderName = "iam"

// TokenSource obtains a bearer credential for an API key.
type TokenSource interface {
	AcquireToken(ctx context.Context, apiKey string) (*Credential, error)
}

// Provider exchanges an API key for a bearer credential at an IAM style
// token endpoint. Every call performs exactly one exchange: credentials are
// never cached and failures are never retried.
type Provider struct {
	tokenURL  string
	grantType string
	transport providers.Transport
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithMetrics records every exchange on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(p *Provider) { p.metrics = m }
}

// WithTracer opens an "identity.acquire_token" span per exchange.
func WithTracer(t *tracing.Tracer) Option {
	return func(p *Provider) { p.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates a provider for the token endpoint in cfg.
func NewProvider(cfg config.IdentityConfig, transport providers.Transport, opts ...Option) *Provider {
	grantType := cfg.GrantType
	if grantType == "" {
		grantType = config.DefaultGrantType
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = config.DefaultTokenURL
	}

	p := &Provider{
		tokenURL:  tokenURL,
		grantType: grantType,
		transport: transport,
		tracer:    tracing.Noop(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AcquireToken performs one token exchange for apiKey. Every failure,
// including transport failures and timeouts, is an *AuthError.
func (p *Provider) AcquireToken(ctx context.Context, apiKey string) (*Credential, error) {
	ctx, span := p.tracer.Start(ctx, tracing.SpanAcquireToken)
	defer span.End()

	start := time.Now()
	cred, err := p.exchange(ctx, apiKey)
	p.metrics.RecordTokenExchange(err == nil)

	if err != nil {
		tracing.SetError(span, err)
		p.logger.WarnContext(ctx, "token exchange failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	p.logger.DebugContext(ctx, "token exchange succeeded",
		"expires_at", cred.token.Expiry,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cred, nil
}

func (p *Provider) exchange(ctx context.Context, apiKey string) (*Credential, error) {
	form := url.Values{}
	form.Set("grant_type", p.grantType)
	form.Set("apikey", apiKey)

	resp, err := p.transport.PostForm(ctx, p.tokenURL, form, nil)
	if err != nil {
		return nil, &AuthError{Message: transportMessage(err), Cause: err}
	}

	body := resp.Body
	accessToken := gjson.GetBytes(body, "access_token").String()
	if !resp.OK() || strings.TrimSpace(accessToken) == "" {
		return nil, &AuthError{StatusCode: resp.StatusCode, Message: failureMessage(body, resp.StatusCode)}
	}

	cred := NewCredential(accessToken, p.expiry(body))
	if tokenType := gjson.GetBytes(body, "token_type").String(); tokenType != "" {
		cred.token.TokenType = tokenType
	}
	if !cred.Valid() {
		return nil, &AuthError{StatusCode: resp.StatusCode, Message: "token expired on issue"}
	}
	return cred, nil
}

// expiry prefers the absolute "expiration" (unix seconds) over "expires_in".
func (p *Provider) expiry(body []byte) time.Time {
	if exp := gjson.GetBytes(body, "expiration").Int(); exp > 0 {
		return time.Unix(exp, 0)
	}
	if in := gjson.GetBytes(body, "expires_in").Int(); in > 0 {
		return p.now().Add(time.Duration(in) * time.Second)
	}
	return time.Time{}
}

// failureMessage is error_description, else error, else iam_status_<code>.
func failureMessage(body []byte, status int) string {
	for _, path := range []string{"error_description", "error"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return fmt.Sprintf("iam_status_%d", status)
}

func transportMessage(err error) string {
	var timeoutErr *providers.TimeoutError
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Error()
	}
	var providerErr *providers.ProviderError
	if errors.As(err, &providerErr) && providerErr.Cause != nil {
		return providerErr.Cause.Error()
	}
	return err.Error()
}
