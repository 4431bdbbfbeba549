package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/fallback"
	"mercator-hq/parley/pkg/identity"
	"mercator-hq/parley/pkg/language"
	"mercator-hq/parley/pkg/providers"
	"mercator-hq/parley/pkg/providers/watsonx"
	"mercator-hq/parley/pkg/telemetry/logging"
	"mercator-hq/parley/pkg/telemetry/metrics"
	"mercator-hq/parley/pkg/telemetry/tracing"
)

// Outcome labels for chat metrics.
const (
	OutcomeSuccess     = "success"
	OutcomeFallback    = "fallback"
	OutcomeConfigError = "config_error"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

// CallerFactory opens the upstream caller for one request.
type CallerFactory func(upstream config.UpstreamConfig, cred *identity.Credential, prompt watsonx.Prompt) fallback.Caller

// WatsonxCallers returns a CallerFactory backed by client sessions.
func WatsonxCallers(client *watsonx.Client) CallerFactory {
	return func(upstream config.UpstreamConfig, cred *identity.Credential, prompt watsonx.Prompt) fallback.Caller {
		return client.Session(upstream, cred, prompt)
	}
}

// Service answers chat requests: it validates the request, obtains a
// credential, runs the fallback chain and shapes the reply envelope. It holds
// no per-request state and is safe for concurrent use.
type Service struct {
	tokens  identity.TokenSource
	callers CallerFactory
	config  func() *config.Config
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfigSource sets where the service reads its configuration on every
// request. The default is the global configuration.
func WithConfigSource(fn func() *config.Config) Option {
	return func(s *Service) { s.config = fn }
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer opens a "chat.handle" span per request.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a chat service.
func NewService(tokens identity.TokenSource, callers CallerFactory, opts ...Option) *Service {
	s := &Service{
		tokens:  tokens,
		callers: callers,
		config:  config.GetConfig,
		tracer:  tracing.Noop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle answers one chat request.
//
// Errors:
//   - *ConfigurationError when API_KEY, PROJECT_ID or URL is absent
//   - *ValidationError when the message is blank
//   - any other error is internal
//
// Authentication and upstream failures are not errors: they produce a
// fallback Response.
func (s *Service) Handle(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	cfg := s.currentConfig()

	if missing := cfg.Upstream.Missing(); len(missing) > 0 {
		s.metrics.RecordChat(OutcomeConfigError, "", time.Since(start))
		return nil, &ConfigurationError{Missing: missing}
	}

	message := ""
	if req != nil {
		message = strings.TrimSpace(req.Message)
	}
	if message == "" {
		s.metrics.RecordChat(OutcomeInvalid, "", time.Since(start))
		return nil, &ValidationError{Field: "message", Message: ErrorMessageRequired}
	}

	requestID := logging.GetRequestID(ctx)
	if requestID == "" {
		requestID = NewCorrelationID()
		ctx = logging.WithRequestID(ctx, requestID)
	}

	model := strings.TrimSpace(req.ModelID)
	if model == "" {
		model = cfg.Upstream.ModelID
	}
	lang := language.Resolve(req.Language)

	ctx, span := s.tracer.Start(ctx, tracing.SpanChatHandle)
	defer span.End()
	span.SetAttributes(
		tracing.AttrRequestID.String(requestID),
		tracing.AttrLanguage.String(lang),
		tracing.AttrModel.String(model),
		tracing.AttrMessageLen.Int(len(message)),
	)

	s.logger.InfoContext(ctx, "chat request started",
		"model", model,
		"language", lang,
		"message_length", len(message),
	)

	cred, err := s.tokens.AcquireToken(ctx, cfg.Upstream.APIKey)
	if err != nil {
		var authErr *identity.AuthError
		if !errors.As(err, &authErr) {
			tracing.SetError(span, err)
			s.metrics.RecordChat(OutcomeError, "", time.Since(start))
			return nil, fmt.Errorf("acquire token: %w", err)
		}
		resp := s.fallbackResponse(cfg, lang, ErrorAuthentication, MethodAuth, "", messageDetails(authErr.Message))
		s.finish(ctx, span, resp, start, authErr)
		return resp, nil
	}

	prompt := watsonx.Prompt{Directive: language.Directive(lang), Message: message}
	result := fallback.Run(ctx, s.callers(cfg.Upstream, cred, prompt), model)
	if errors.Is(result.Err, fallback.ErrStepLimit) {
		tracing.SetError(span, result.Err)
		s.metrics.RecordChat(OutcomeError, string(result.Method), time.Since(start))
		return nil, result.Err
	}

	usedModel := result.UsedModel
	if usedModel == model {
		usedModel = ""
	}

	var resp *Response
	if result.Succeeded() {
		resp = &Response{
			Reply:     result.Reply,
			Method:    string(result.Method),
			UsedModel: usedModel,
			Language:  lang,
		}
	} else {
		resp = s.fallbackResponse(cfg, lang, ErrorUpstream, string(result.Method), usedModel, result.Details)
	}
	s.finish(ctx, span, resp, start, result.Err)
	return resp, nil
}

func (s *Service) fallbackResponse(cfg *config.Config, lang, errMsg, method, usedModel string, details json.RawMessage) *Response {
	reply := cfg.Chat.FallbackMessage
	if reply == "" {
		reply = config.DefaultFallbackMessage
	}
	return &Response{
		Reply:     reply,
		Fallback:  true,
		Method:    method,
		UsedModel: usedModel,
		Language:  lang,
		Error:     errMsg,
		Details:   details,
	}
}

// finish logs, traces and counts a request that produced a response. The
// fallback record carries the status and error code of cause, never the
// upstream body.
func (s *Service) finish(ctx context.Context, span trace.Span, resp *Response, start time.Time, cause error) {
	duration := time.Since(start)
	tracing.SetResultAttributes(span, resp.Method, resp.UsedModel, resp.Fallback)

	if resp.Fallback {
		status, code := failureCode(cause)
		s.metrics.RecordChat(OutcomeFallback, resp.Method, duration)
		s.logger.WarnContext(ctx, "chat request failed, sending fallback reply",
			"method", resp.Method,
			"used_model", resp.UsedModel,
			"error", resp.Error,
			"status", status,
			"error_code", code,
			"duration_ms", duration.Milliseconds(),
		)
		return
	}

	s.metrics.RecordChat(OutcomeSuccess, resp.Method, duration)
	s.logger.InfoContext(ctx, "chat reply sent",
		"method", resp.Method,
		"used_model", resp.UsedModel,
		"reply_length", len(resp.Reply),
		"duration_ms", duration.Milliseconds(),
	)
}

// failureCode returns the HTTP status and error code behind a fallback.
func failureCode(err error) (int, string) {
	var upstreamErr *providers.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode, upstreamErr.Code
	}
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode, ""
	}
	return 0, ""
}

func (s *Service) currentConfig() *config.Config {
	if s.config != nil {
		if cfg := s.config(); cfg != nil {
			return cfg
		}
	}
	return config.Default()
}

// NewCorrelationID returns a short random id for correlating log records.
func NewCorrelationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func messageDetails(msg string) json.RawMessage {
	data, err := json.Marshal(map[string]string{"message": msg})
	if err != nil {
		return nil
	}
	return data
}
