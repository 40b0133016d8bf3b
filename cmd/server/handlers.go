package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"trade-journal-go/internal/export"
	"trade-journal-go/internal/importer"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/service"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	svc *service.Service
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, svc *service.Service) *APIHandler {
	return &APIHandler{log: log, svc: svc}
}

// importResponse describes an import session to the client: a ready preview,
// or the material for the column-mapping dialog.
type importResponse struct {
	SessionID        string               `json:"sessionId"`
	State            string               `json:"state"`
	Headers          []string             `json:"headers,omitempty"`
	SuggestedMapping models.ColumnMapping `json:"suggestedMapping,omitempty"`
	Preview          *models.ParseResult  `json:"preview,omitempty"`
	Error            string               `json:"error,omitempty"`
}

func sessionResponse(s *importer.Session, err error) importResponse {
	resp := importResponse{
		SessionID: s.ID,
		State:     string(s.State),
		Preview:   s.Preview(),
	}
	if s.State == importer.StateMappingRequired {
		resp.Headers = s.Headers()
		resp.SuggestedMapping = s.SuggestedMapping()
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// StartImport accepts a multipart upload and opens an import session.
// Missing required columns are not fatal: the response carries the headers
// and a suggested mapping instead of a preview.
func (h *APIHandler) StartImport(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	session, err := h.svc.StartImport(r.FormValue("account"), header.Filename, file)
	if err != nil && !errors.Is(err, importer.ErrMissingColumns) {
		h.log.Warn("Upload rejected", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session, err))
}

// ConfirmMapping re-parses a session with the user's column assignment.
func (h *APIHandler) ConfirmMapping(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mapping models.ColumnMapping `json:"mapping"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := h.svc.ConfirmMapping(sessionID, body.Mapping); err != nil {
		h.writeServiceError(w, err)
		return
	}

	session, err := h.svc.Session(sessionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session, nil))
}

// ConfirmImport merges the previewed batch into the store.
func (h *APIHandler) ConfirmImport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.ConfirmImport(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// CancelImport dismisses a session before confirmation.
func (h *APIHandler) CancelImport(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelImport(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTrades returns the account's trades.
func (h *APIHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.ListTrades(r.URL.Query().Get("account"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// CreateTrade records a direct-entry trade; the calculator fills in the
// derived fields.
func (h *APIHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var t models.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := h.svc.CreateTrade(t)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTrade edits an existing trade and recomputes its outcome.
func (h *APIHandler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	var t models.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	t.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateTrade(t)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrade removes a trade by ID.
func (h *APIHandler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTrade(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns the account's headline aggregate.
func (h *APIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.URL.Query().Get("account"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ExportTrades streams the account's trades in the fixed CSV format.
func (h *APIHandler) ExportTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.ListTrades(r.URL.Query().Get("account"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	if err := export.WriteTrades(w, trades); err != nil {
		h.log.Error("Failed to write trade export", zap.Error(err))
	}
}

// ExportReport streams the aggregate report for a period. Monthly, quarterly
// and yearly anchor on today; custom reads from/to query params.
func (h *APIHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.ListTrades(r.URL.Query().Get("account"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	period := export.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = export.PeriodMonthly
	}
	from, _ := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	to, _ := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if period == export.PeriodCustom && (from.IsZero() || to.IsZero()) {
		http.Error(w, "custom period requires from and to dates", http.StatusBadRequest)
		return
	}
	// The custom upper bound is inclusive of its day.
	start, end := export.PeriodRange(period, time.Now(), from, to.AddDate(0, 0, 1))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
	if err := export.WriteReport(w, trades, start, end); err != nil {
		h.log.Error("Failed to write report export", zap.Error(err))
	}
}

func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrTradeNotFound), errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTrade),
		errors.Is(err, importer.ErrMappingIncomplete),
		errors.Is(err, importer.ErrInvalidTransition):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
