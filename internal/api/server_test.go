package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type staticSessions int

func (s staticSessions) Len() int { return int(s) }

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	t.Parallel()

	srv := NewServer(staticSessions(0), zap.NewNop())

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, srv, http.MethodGet, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("GET %s missing request id header", path)
		}
	}
}

func TestStatusReportsSessions(t *testing.T) {
	t.Parallel()

	srv := NewServer(staticSessions(3), zap.NewNop())

	rec := doRequest(t, srv, http.MethodGet, "/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["active_sessions"] != float64(3) {
		t.Fatalf("active_sessions = %v", body["active_sessions"])
	}
	if _, ok := body["uptime_seconds"]; !ok {
		t.Fatal("expected uptime_seconds in status body")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, zap.NewNop())

	rec := doRequest(t, srv, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	t.Parallel()

	srv := NewServer(nil, zap.NewNop())
	rec := doRequest(t, srv, http.MethodGet, "/v1/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
