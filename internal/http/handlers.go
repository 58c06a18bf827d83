package http

import (
	"context"
	"encoding/json"
	"net/http"

	"finboard/internal/core"
	"finboard/internal/dashboard"
	"finboard/internal/gateway"
	"finboard/internal/log"
	"finboard/internal/middleware/trace"
	"finboard/internal/prefs"
)

// DashboardController is the surface the handlers drive.
type DashboardController interface {
	Load(ctx context.Context) dashboard.Phase
	View() dashboard.View
	Drilldown(slice core.TxnType) dashboard.ViewState
	Back() dashboard.ViewState
	Phase() dashboard.Phase
}

// PrefsStore persists display preferences.
type PrefsStore interface {
	Load(ctx context.Context) (prefs.Preferences, error)
	Save(ctx context.Context, p prefs.Preferences) error
}

// InvoiceGenerator forwards invoice requests to the upstream API.
type InvoiceGenerator interface {
	GenerateInvoice(ctx context.Context, txn core.Transaction) (gateway.InvoiceResult, error)
}

// errorBody mirrors the upstream API's error shape so clients see one format.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	metrics := s.tracer.GetMetrics()
	detection := s.detector.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"phase":               string(s.dash.Phase()),
		"total_requests":      metrics.TotalRequests,
		"avg_response_us":     metrics.AverageResponseTime,
		"suspicious_requests": detection.SuspiciousRequests,
	})
}

// handleDashboard returns the current view, loading data first if this is the
// first request since startup.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.dash.Phase() == dashboard.PhaseIdle {
		s.dash.Load(r.Context())
	}
	writeJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	phase := s.dash.Load(r.Context())
	s.logger.InfoContext(r.Context(), "dashboard reloaded",
		log.FieldRequestID, trace.GetRequestID(r.Context()),
		"phase", string(phase))
	writeJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) handleDrilldown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Slice string `json:"slice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slice := core.ParseTxnType(body.Slice)
	if slice == core.Unknown {
		writeError(w, http.StatusBadRequest, "slice must be Credited or Debited")
		return
	}

	s.dash.Drilldown(slice)
	writeJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.dash.Back()
	writeJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) handlePrefs(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		writeError(w, http.StatusServiceUnavailable, "preferences store not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.prefs.Load(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "load preferences failed", log.FieldError, err.Error())
			writeError(w, http.StatusInternalServerError, "could not load preferences")
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var p prefs.Preferences
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := p.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.prefs.Save(r.Context(), p); err != nil {
			s.logger.ErrorContext(r.Context(), "save preferences failed", log.FieldError, err.Error())
			writeError(w, http.StatusInternalServerError, "could not save preferences")
			return
		}
		writeJSON(w, http.StatusOK, p)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleInvoice passes a transaction to the upstream invoice generator.
func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.invoices == nil {
		writeError(w, http.StatusServiceUnavailable, "invoice generation not configured")
		return
	}

	var txn core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := txn.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.invoices.GenerateInvoice(r.Context(), txn)
	if err != nil {
		fields := log.NewFields().
			WithRequestID(trace.GetRequestID(r.Context())).
			WithTransaction(txn.ID, string(txn.TxnType), txn.Amount, txn.Category).
			WithError(err)
		s.logger.ErrorContext(r.Context(), "invoice generation failed", fields.ToSlice()...)
		writeError(w, upstreamStatus(err), "invoice generation failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// upstreamStatus maps gateway failures onto proxy status codes.
func upstreamStatus(err error) int {
	gwErr, ok := gateway.AsError(err)
	if !ok {
		return http.StatusBadGateway
	}
	switch gwErr.Kind {
	case gateway.KindTimeout:
		return http.StatusGatewayTimeout
	case gateway.KindHTTP:
		if gwErr.Status >= 400 && gwErr.Status < 500 {
			return gwErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
