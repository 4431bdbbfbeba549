package proxy

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/parley/pkg/chat"
	"mercator-hq/parley/pkg/proxy/types"
)

func TestWriteJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	resp := &chat.Response{Reply: "a < b & c", Fallback: true, Method: "chat->generation", Language: "en"}

	if err := WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		t.Fatal(err)
	}

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{`"method":"chat->generation"`, `"reply":"a < b & c"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q does not contain %q", body, want)
		}
	}
	if strings.Contains(body, `\u003e`) || strings.Contains(body, `\u0026`) || strings.Contains(body, `\u003c`) {
		t.Errorf("body is HTML-escaped: %s", body)
	}
}

func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WriteErrorResponse(w, http.StatusBadRequest, types.NewNotConfiguredError([]string{"API_KEY"})); err != nil {
		t.Fatal(err)
	}

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	want := `{"error":"Backend not configured","details":{"missing":["API_KEY"]}}` + "\n"
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}
