package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// Response is a raw upstream HTTP response. Non-2xx statuses are returned
// as responses, not errors, so callers can inspect error bodies.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport is the capability upstream clients are built on: send a body,
// get the raw response or a transport error. Tests substitute their own.
type Transport interface {
	// PostJSON marshals payload and POSTs it as application/json.
	PostJSON(ctx context.Context, endpoint string, payload any, header http.Header) (*Response, error)

	// PostForm POSTs form as application/x-www-form-urlencoded.
	PostForm(ctx context.Context, endpoint string, form url.Values, header http.Header) (*Response, error)
}

// TransportConfig configures an HTTPTransport.
type TransportConfig struct {
	// Name identifies the upstream service in errors and logs
	Name string

	// Timeout bounds each request, including reading the body
	Timeout time.Duration

	// MaxIdleConns and friends tune connection pooling
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Logger receives debug records for each request (nil uses slog.Default)
	Logger *slog.Logger
}

// HTTPTransport is a Transport over a pooled http.Client. It performs a
// single attempt per call: the fallback chain is the only retry policy.
type HTTPTransport struct {
	name    string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPTransport creates a transport with its own connection pool. One
// transport is shared by all requests to the same upstream.
func NewHTTPTransport(cfg TransportConfig) *HTTPTransport {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPTransport{
		name:    cfg.Name,
		timeout: cfg.Timeout,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

// PostJSON implements Transport.
func (t *HTTPTransport) PostJSON(ctx context.Context, endpoint string, payload any, header http.Header) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: t.name, Message: "failed to marshal request", Cause: err}
	}
	return t.post(ctx, endpoint, "application/json", body, header)
}

// PostForm implements Transport.
func (t *HTTPTransport) PostForm(ctx context.Context, endpoint string, form url.Values, header http.Header) (*Response, error) {
	return t.post(ctx, endpoint, "application/x-www-form-urlencoded", []byte(form.Encode()), header)
}

func (t *HTTPTransport) post(ctx context.Context, endpoint, contentType string, body []byte, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: t.name, Message: "failed to create request", Cause: err}
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", contentType)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	t.logger.DebugContext(ctx, "sending upstream request",
		"provider", t.name,
		"url", redactQuery(endpoint),
	)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.classify(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, t.classify(ctx, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// classify turns a client error into a TimeoutError or ProviderError.
func (t *HTTPTransport) classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Provider: t.name, Timeout: t.timeout, Cause: err}
	}
	return &ProviderError{Provider: t.name, Message: fmt.Sprintf("request failed: %v", err), Cause: err}
}

// CloseIdleConnections releases pooled connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

func redactQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
