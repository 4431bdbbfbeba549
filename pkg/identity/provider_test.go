package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/providers"
	"mercator-hq/parley/pkg/telemetry/logging"
	"mercator-hq/parley/pkg/telemetry/metrics"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts ...Option) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	transport := providers.NewHTTPTransport(providers.TransportConfig{
		Name:    ProviderName,
		Timeout: 2 * time.Second,
		Logger:  logging.Discard(),
	})
	cfg := config.IdentityConfig{TokenURL: srv.URL + "/identity/token"}
	return NewProvider(cfg, transport, append([]Option{WithLogger(logging.Discard())}, opts...)...)
}

func TestAcquireToken_Success(t *testing.T) {
	var gotForm url.Values
	var gotContentType, gotAccept string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(data))
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"abc123","token_type":"Bearer","expires_in":3600,"expiration":4102444800}`)
	})

	cred, err := p.AcquireToken(context.Background(), "my-api-key")
	if err != nil {
		t.Fatalf("AcquireToken() error = %v", err)
	}

	if got := cred.token.AccessToken; got != "abc123" {
		t.Errorf("AccessToken = %q", got)
	}
	if got := cred.AuthHeader().Get("Authorization"); got != "Bearer abc123" {
		t.Errorf("Authorization = %q", got)
	}
	if !cred.Valid() {
		t.Error("expected credential to be valid")
	}
	if !cred.token.Expiry.Equal(time.Unix(4102444800, 0)) {
		t.Errorf("Expiry = %v", cred.token.Expiry)
	}

	if gotForm.Get("grant_type") != config.DefaultGrantType {
		t.Errorf("grant_type = %q", gotForm.Get("grant_type"))
	}
	if gotForm.Get("apikey") != "my-api-key" {
		t.Errorf("apikey = %q", gotForm.Get("apikey"))
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestAcquireToken_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error description", http.StatusBadRequest, `{"errorCode":"BXNIM0415E","error":"invalid_grant","error_description":"Provided API key could not be found"}`, "Provided API key could not be found"},
		{"error only", http.StatusBadRequest, `{"error":"invalid_grant"}`, "invalid_grant"},
		{"no message", http.StatusInternalServerError, `{}`, "iam_status_500"},
		{"not json", http.StatusBadGateway, `bad gateway`, "iam_status_502"},
		{"ok without token", http.StatusOK, `{"token_type":"Bearer"}`, "iam_status_200"},
		{"expired on issue", http.StatusOK, `{"access_token":"abc","expiration":1000}`, "token expired on issue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			cred, err := p.AcquireToken(context.Background(), "key")
			if cred != nil {
				t.Error("expected nil credential")
			}
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected *AuthError, got %T: %v", err, err)
			}
			if authErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", authErr.Message, tt.wantMessage)
			}
			if authErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", authErr.StatusCode, tt.status)
			}
		})
	}
}

func TestAcquireToken_TransportFailure(t *testing.T) {
	transport := providers.NewHTTPTransport(providers.TransportConfig{
		Name:    ProviderName,
		Timeout: time.Second,
		Logger:  logging.Discard(),
	})
	srv := httptest.NewServer(http.NotFoundHandler())
	tokenURL := srv.URL
	srv.Close()

	p := NewProvider(config.IdentityConfig{TokenURL: tokenURL}, transport, WithLogger(logging.Discard()))
	_, err := p.AcquireToken(context.Background(), "key")

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T", err)
	}
	if authErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", authErr.StatusCode)
	}
	if authErr.Message == "" {
		t.Error("expected a message")
	}
	var providerErr *providers.ProviderError
	if !errors.As(err, &providerErr) {
		t.Error("expected transport error in chain")
	}
}

func TestAcquireToken_NoRetry(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := p.AcquireToken(context.Background(), "key"); err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly 1 exchange, got %d", n)
	}
}

func TestAcquireToken_RecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector(config.Default().Telemetry.Metrics, prometheus.NewRegistry())
	var succeed atomic.Bool
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !succeed.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"access_token":"t"}`)
	}, WithMetrics(collector))

	_, _ = p.AcquireToken(context.Background(), "key")
	succeed.Store(true)
	_, _ = p.AcquireToken(context.Background(), "key")

	expected := `
# HELP parley_token_exchanges_total Total number of identity token exchanges by outcome
# TYPE parley_token_exchanges_total counter
parley_token_exchanges_total{outcome="failure"} 1
parley_token_exchanges_total{outcome="success"} 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "parley_token_exchanges_total"); err != nil {
		t.Error(err)
	}
}

func TestCredential_NeverPrintsToken(t *testing.T) {
	cred := NewCredential("super-secret", time.Now().Add(time.Hour))
	if s := fmt.Sprint(cred); strings.Contains(s, "super-secret") {
		t.Errorf("String() leaked the token: %s", s)
	}
	if v := cred.LogValue().String(); strings.Contains(v, "super-secret") {
		t.Errorf("LogValue() leaked the token: %s", v)
	}
}
