package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/parley/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Namespace:              "test",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
		MaxErrorCodes:          2,
	}
}

func TestCollector_RecordChat(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(testConfig(), registry)

	c.RecordChat("success", "chat", 300*time.Millisecond)
	c.RecordChat("success", "chat", 200*time.Millisecond)
	c.RecordChat("fallback", "chat->generation", time.Second)
	c.RecordChat("invalid", "", time.Millisecond)

	if got := testutil.ToFloat64(c.chat.requestsTotal.WithLabelValues("success", "chat")); got != 2 {
		t.Errorf("expected 2 successful chat requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.chat.requestsTotal.WithLabelValues("invalid", "none")); got != 1 {
		t.Errorf("expected empty method recorded as none, got %v", got)
	}
	if got := testutil.CollectAndCount(c.chat.requestDuration); got != 3 {
		t.Errorf("expected 3 duration series, got %d", got)
	}
}

func TestCollector_RecordAttempt(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordAttempt("chat", false, 100*time.Millisecond, "model_not_supported")
	c.RecordAttempt("generation", true, 200*time.Millisecond, "")
	c.RecordAttempt("generation-instruct", false, 50*time.Millisecond, "")

	if got := testutil.ToFloat64(c.upstream.attempts.WithLabelValues("chat", "failure")); got != 1 {
		t.Errorf("expected 1 failed chat attempt, got %v", got)
	}
	if got := testutil.ToFloat64(c.upstream.attempts.WithLabelValues("generation", "success")); got != 1 {
		t.Errorf("expected 1 successful generation attempt, got %v", got)
	}
	if got := testutil.ToFloat64(c.upstream.errors.WithLabelValues("chat", "model_not_supported")); got != 1 {
		t.Errorf("expected model_not_supported error, got %v", got)
	}
	if got := testutil.ToFloat64(c.upstream.errors.WithLabelValues("generation-instruct", "unknown")); got != 1 {
		t.Errorf("expected empty code recorded as unknown, got %v", got)
	}
}

func TestCollector_ErrorCodeCardinality(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordAttempt("chat", false, 0, "a")
	c.RecordAttempt("chat", false, 0, "b")
	c.RecordAttempt("chat", false, 0, "c")
	c.RecordAttempt("chat", false, 0, "a")

	if got := testutil.ToFloat64(c.upstream.errors.WithLabelValues("chat", OverflowLabel)); got != 1 {
		t.Errorf("expected third distinct code to overflow, got %v", got)
	}
	if got := testutil.ToFloat64(c.upstream.errors.WithLabelValues("chat", "a")); got != 2 {
		t.Errorf("expected known code to stay allowed, got %v", got)
	}
	if got := c.errorCodes.Count(); got != 2 {
		t.Errorf("expected cardinality 2, got %d", got)
	}
}

func TestCollector_TokenExchange(t *testing.T) {
	c := NewCollector(testConfig(), nil)

	c.RecordTokenExchange(true)
	c.RecordTokenExchange(false)
	c.RecordTokenExchange(false)

	if got := testutil.ToFloat64(c.upstream.tokenExchanges.WithLabelValues("failure")); got != 2 {
		t.Errorf("expected 2 failed exchanges, got %v", got)
	}
}

func TestCollector_NilAndDisabled(t *testing.T) {
	var nilCollector *Collector
	nilCollector.RecordChat("success", "chat", time.Second)
	nilCollector.RecordAttempt("chat", true, time.Second, "")
	nilCollector.RecordTokenExchange(true)
	if nilCollector.Enabled() {
		t.Error("nil collector must report disabled")
	}

	disabled := false
	cfg := testConfig()
	cfg.Enabled = &disabled
	c := NewCollector(cfg, nil)
	c.RecordChat("success", "chat", time.Second)
	if got := testutil.ToFloat64(c.chat.requestsTotal.WithLabelValues("success", "chat")); got != 0 {
		t.Errorf("disabled collector recorded %v requests", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from disabled handler, got %d", rec.Code)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(testConfig(), nil)
	c.RecordChat("success", "generation", 100*time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `test_chat_requests_total{method="generation",outcome="success"} 1`) {
		t.Errorf("expected chat counter in exposition, got:\n%s", body)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(1)
	if !cl.Allow("x") {
		t.Fatal("first value must be allowed")
	}
	if cl.Allow("y") {
		t.Error("second value must be rejected")
	}
	if !cl.Allow("x") {
		t.Error("known value must stay allowed")
	}
}
