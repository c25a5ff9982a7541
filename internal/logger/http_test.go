package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecovererWritesJSON500(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)
	h := Middleware(log)(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" || body["details"] != "boom" {
		t.Fatalf("body = %v", body)
	}
	if !strings.Contains(buf.String(), "handler panic") {
		t.Fatalf("panic was not logged: %s", buf.String())
	}
}

func TestMiddlewareLogsAccessLine(t *testing.T) {
	var buf bytes.Buffer
	h := Middleware(New("info", "json", &buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":418`) || !strings.Contains(out, `"req_id"`) {
		t.Fatalf("access line = %s", out)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("nonsense", "", &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
