package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finboard/internal/core"
	"finboard/internal/dashboard"
	"finboard/internal/gateway"
	"finboard/internal/log"
	"finboard/internal/prefs"
)

type stubAPI struct {
	txns    []core.Transaction
	summary core.Summary
	err     error
}

func (a *stubAPI) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return a.txns, a.err
}

func (a *stubAPI) Summary(ctx context.Context) (core.Summary, error) {
	return a.summary, a.err
}

type memPrefs struct {
	saved prefs.Preferences
	err   error
}

func (m *memPrefs) Load(ctx context.Context) (prefs.Preferences, error) {
	if m.err != nil {
		return prefs.Preferences{}, m.err
	}
	if m.saved == (prefs.Preferences{}) {
		return prefs.Preferences{Language: prefs.DefaultLanguage, Theme: prefs.DefaultTheme}, nil
	}
	return m.saved, nil
}

func (m *memPrefs) Save(ctx context.Context, p prefs.Preferences) error {
	if m.err != nil {
		return m.err
	}
	m.saved = p
	return nil
}

type stubInvoices struct {
	result gateway.InvoiceResult
	err    error
}

func (s *stubInvoices) GenerateInvoice(ctx context.Context, txn core.Transaction) (gateway.InvoiceResult, error) {
	return s.result, s.err
}

func newTestServer(t *testing.T, api *stubAPI, opts Options) *Server {
	t.Helper()
	logger := log.New(log.DefaultConfig())
	ctrl := dashboard.NewController(api, 0, logger)
	s := NewServer(":0", ctrl, logger, opts)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func liveStub() *stubAPI {
	return &stubAPI{
		txns: []core.Transaction{
			{ID: "t1", Date: "2026-08-03T10:00:00Z", TxnType: core.Credited, Amount: 85000},
			{ID: "t2", Date: "2026-08-05T10:00:00Z", TxnType: core.Debited, Amount: 450},
		},
		summary: core.Summary{TotalCredit: 85000, TotalDebit: 450, NetBalance: 84550},
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})

	if rec := do(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := do(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
}

func TestReadyReportsRequestMetrics(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})

	do(s, http.MethodGet, "/healthz", "")
	do(s, http.MethodGet, "/healthz", "")
	do(s, http.MethodGet, "/.env", "") // scanner-style path, counted as suspicious

	rec := do(s, http.MethodGet, "/readyz", "")
	var body struct {
		Status             string `json:"status"`
		TotalRequests      int64  `json:"total_requests"`
		AvgResponseUs      int64  `json:"avg_response_us"`
		SuspiciousRequests int64  `json:"suspicious_requests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode readyz: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	// Three requests completed before readyz was handled.
	if body.TotalRequests < 3 {
		t.Errorf("total_requests = %d, want >= 3", body.TotalRequests)
	}
	if body.AvgResponseUs < 0 {
		t.Errorf("avg_response_us = %d, want >= 0", body.AvgResponseUs)
	}
	if body.SuspiciousRequests != 1 {
		t.Errorf("suspicious_requests = %d, want 1", body.SuspiciousRequests)
	}
}

func TestDashboardLazyLoad(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})

	rec := do(s, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d: %s", rec.Code, rec.Body.String())
	}

	var view dashboard.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Source != dashboard.SourceLive {
		t.Errorf("source = %q, want live", view.Source)
	}
	if len(view.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(view.Rows))
	}
}

func TestDashboardFallbackOnUpstreamFailure(t *testing.T) {
	s := newTestServer(t, &stubAPI{err: errors.New("refused")}, Options{})

	rec := do(s, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rec.Code)
	}

	var view dashboard.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Source != dashboard.SourceFallback {
		t.Errorf("source = %q, want fallback", view.Source)
	}
	if len(view.Rows) == 0 {
		t.Error("fallback should still produce rows")
	}
}

func TestDrilldownEndpoint(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})
	do(s, http.MethodGet, "/api/dashboard", "")

	rec := do(s, http.MethodPost, "/api/dashboard/drilldown", `{"slice":"Debited"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("drilldown = %d: %s", rec.Code, rec.Body.String())
	}

	var view dashboard.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.State != dashboard.DebitBreakdown {
		t.Errorf("state = %q, want debit_breakdown", view.State)
	}
	if len(view.Rows) != 1 || view.Rows[0].ID != "t2" {
		t.Errorf("rows = %+v, want only the debit", view.Rows)
	}

	rec = do(s, http.MethodPost, "/api/dashboard/back", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("back = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.State != dashboard.Overview || len(view.Rows) != 2 {
		t.Errorf("after back: state=%q rows=%d", view.State, len(view.Rows))
	}
}

func TestDrilldownRejectsUnknownSlice(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})

	rec := do(s, http.MethodPost, "/api/dashboard/drilldown", `{"slice":"Sideways"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Detail == "" {
		t.Error("error body should carry a detail message")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	store := &memPrefs{}
	s := newTestServer(t, liveStub(), Options{Prefs: store})

	rec := do(s, http.MethodGet, "/api/prefs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get prefs = %d", rec.Code)
	}

	rec = do(s, http.MethodPut, "/api/prefs", `{"language":"hi-IN","theme":"light","monthly_budget":60000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put prefs = %d: %s", rec.Code, rec.Body.String())
	}
	if store.saved.Language != "hi-IN" || store.saved.MonthlyBudget != 60000 {
		t.Errorf("saved = %+v", store.saved)
	}
}

func TestPrefsRejectsInvalidTheme(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{Prefs: &memPrefs{}})

	rec := do(s, http.MethodPut, "/api/prefs", `{"language":"en","theme":"sepia"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestInvoiceEndpoint(t *testing.T) {
	gen := &stubInvoices{result: gateway.InvoiceResult{Success: true, InvoiceID: "INV-001"}}
	s := newTestServer(t, liveStub(), Options{Invoices: gen})

	body := `{"id":"t1","date":"2026-08-03T10:00:00Z","txn_type":"Credited","amount":85000}`
	rec := do(s, http.MethodPost, "/api/invoices", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("invoice = %d: %s", rec.Code, rec.Body.String())
	}

	var result gateway.InvoiceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.InvoiceID != "INV-001" {
		t.Errorf("invoice id = %q", result.InvoiceID)
	}
}

func TestInvoiceUpstreamTimeoutMapsTo504(t *testing.T) {
	gen := &stubInvoices{err: &gateway.Error{Kind: gateway.KindTimeout, Message: "request timed out"}}
	s := newTestServer(t, liveStub(), Options{Invoices: gen})

	body := `{"id":"t1","txn_type":"Debited","amount":100}`
	rec := do(s, http.MethodPost, "/api/invoices", body)
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})

	for path, method := range map[string]string{
		"/api/dashboard":        http.MethodPost,
		"/api/dashboard/reload": http.MethodGet,
		"/api/dashboard/back":   http.MethodGet,
	} {
		if rec := do(s, method, path, ""); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", method, path, rec.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t, liveStub(), Options{})

	rec := do(s, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing CSP header")
	}
}
