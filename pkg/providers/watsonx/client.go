package watsonx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/providers"
	"mercator-hq/parley/pkg/telemetry/metrics"
	"mercator-hq/parley/pkg/telemetry/tracing"
)

// ProviderName identifies the model service in errors and logs.
const ProviderName = "watsonx"

// Credential authorizes model calls.
type Credential interface {
	// AuthHeader returns the headers that authorize a request.
	AuthHeader() http.Header
}

// Client calls the model service's text endpoints. It holds only shared,
// immutable dependencies and is safe for concurrent use; request state lives
// in a Session.
type Client struct {
	transport providers.Transport
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records every call on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer opens an "upstream.<method>" span per call.
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithLogger sets the logger for per-call records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client over transport.
func NewClient(transport providers.Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		tracer:    tracing.Noop(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session binds a client to one chat request: the upstream settings in effect
// when the request arrived, its credential and its prompt.
type Session struct {
	client     *Client
	upstream   config.UpstreamConfig
	credential Credential
	prompt     Prompt
}

// Session returns a session for one chat request.
func (c *Client) Session(upstream config.UpstreamConfig, cred Credential, prompt Prompt) *Session {
	return &Session{
		client:     c,
		upstream:   upstream,
		credential: cred,
		prompt:     prompt,
	}
}

// Call performs one model call with the given method label and model and
// returns its normalized outcome. It never returns a nil attempt and never
// panics on malformed bodies.
func (s *Session) Call(ctx context.Context, method providers.Method, modelID string) *providers.Attempt {
	c := s.client
	ctx, span := c.tracer.Start(ctx, tracing.UpstreamSpanName(string(method)))
	defer span.End()

	header := http.Header{}
	if s.credential != nil {
		for key, values := range s.credential.AuthHeader() {
			header[key] = values
		}
	}
	tracing.Inject(ctx, header)

	kind := method.Endpoint()
	var payload any
	if kind == providers.EndpointChat {
		payload = buildChatRequest(s.prompt, s.upstream.ProjectID, modelID, s.upstream.Parameters)
	} else {
		payload = buildGenerationRequest(s.prompt, s.upstream.ProjectID, modelID, s.upstream.Parameters)
	}

	start := time.Now()
	resp, err := c.transport.PostJSON(ctx, endpointURL(s.upstream, kind), payload, header)
	attempt := s.normalize(method, modelID, resp, err)
	attempt.Latency = time.Since(start)

	tracing.SetAttemptAttributes(span, modelID, attempt.StatusCode, attempt.ErrorCode)
	if attempt.Err != nil {
		tracing.SetError(span, attempt.Err)
	}
	c.metrics.RecordAttempt(string(method), attempt.Succeeded(), attempt.Latency, attempt.ErrorCode)

	level := slog.LevelInfo
	if !attempt.Succeeded() {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "upstream attempt",
		"method", string(method),
		"model", modelID,
		"status", attempt.StatusCode,
		"error_code", attempt.ErrorCode,
		"latency_ms", attempt.Latency.Milliseconds(),
	)

	return attempt
}

// normalize turns a transport result into an attempt.
func (s *Session) normalize(method providers.Method, modelID string, resp *providers.Response, err error) *providers.Attempt {
	attempt := &providers.Attempt{Method: method, ModelID: modelID}

	if err != nil {
		attempt.Details = messageDetails(err.Error())
		attempt.Err = &providers.UpstreamError{
			Method:  method,
			ModelID: modelID,
			Message: transportMessage(err),
			Cause:   err,
		}
		return attempt
	}

	attempt.StatusCode = resp.StatusCode
	if !gjson.ValidBytes(resp.Body) {
		raw := truncate(string(resp.Body), maxRawResponse)
		attempt.Details = messageDetails("response is not valid JSON: " + raw)
		attempt.Err = &providers.UpstreamError{
			Method:     method,
			ModelID:    modelID,
			StatusCode: resp.StatusCode,
			Message:    "response is not valid JSON",
			Cause:      &providers.ParseError{Provider: ProviderName, RawResponse: raw},
		}
		return attempt
	}

	if resp.OK() {
		if method.Endpoint() == providers.EndpointChat {
			attempt.Reply = ChatReply(resp.Body)
		} else {
			attempt.Reply = GenerationReply(resp.Body, s.prompt)
		}
		if attempt.Reply != "" {
			return attempt
		}
	}

	attempt.ErrorCode = ErrorCode(resp.Body)
	attempt.Details, attempt.HasErrorObject = errorDetails(resp.Body)
	msg := errorMessage(resp.Body)
	if msg == "" && resp.OK() {
		msg = "response contained no reply text"
	}
	attempt.Err = &providers.UpstreamError{
		Method:     method,
		ModelID:    modelID,
		StatusCode: resp.StatusCode,
		Code:       attempt.ErrorCode,
		Message:    msg,
	}
	return attempt
}

func transportMessage(err error) string {
	var timeoutErr *providers.TimeoutError
	if errors.As(err, &timeoutErr) {
		return "request timed out"
	}
	return "request failed"
}
