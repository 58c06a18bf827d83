package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func drive(m *Middleware, handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	m.Middleware(handler).ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareMetricsAverage(t *testing.T) {
	m := NewMiddleware(nil)
	handler := func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}

	for i := 0; i < 3; i++ {
		drive(m, handler, "/api/dashboard")
	}

	got := m.GetMetrics()
	if got.TotalRequests != 3 {
		t.Errorf("total requests = %d, want 3", got.TotalRequests)
	}
	// Each request slept at least 2ms, so the mean is at least 2000µs.
	if got.AverageResponseTime < 2000 {
		t.Errorf("average response time = %dµs, want >= 2000", got.AverageResponseTime)
	}
}

func TestMiddlewareMetricsEmpty(t *testing.T) {
	m := NewMiddleware(nil)
	if got := m.GetMetrics(); got.TotalRequests != 0 || got.AverageResponseTime != 0 {
		t.Errorf("fresh metrics = %+v, want zeros", got)
	}
}

func TestRequestIDReachesHandler(t *testing.T) {
	m := NewMiddleware(nil)
	var seen string
	handler := func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}

	drive(m, handler, "/healthz")
	if !strings.HasPrefix(seen, "req_") {
		t.Errorf("request id = %q, want req_ prefix", seen)
	}
}

func TestMiddlewareLogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	m := NewMiddleware(func(*http.Request) string { return "10.0.0.1" })
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?slice=Debited", nil)
	req.Header.Set("Referer", "https://example.com/board")
	m.Middleware(http.HandlerFunc(handler)).ServeHTTP(rec, req)

	out := buf.String()
	for _, want := range []string{
		"slice=Debited",
		"example.com/board",
		"client_ip=10.0.0.1",
		"status_code=418",
		"duration_human=",
		"success=false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
