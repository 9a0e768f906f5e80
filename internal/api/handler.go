// Package api implements the ninebox REST API.
// It serves live score previews, the assessment lifecycle and period
// rescoring and exports on top of the review service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ninebox/ninebox/internal/blob"
	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/internal/records"
	"github.com/ninebox/ninebox/internal/review"
	"github.com/ninebox/ninebox/pkg/assessment"
)

const maxBodyBytes = 1 << 20

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Options configures a Handler.
type Options struct {
	APIKey string
	CORS   bool
	Logger logger.Logger
	Health HealthCheck
}

// Handler is the top-level API handler for nineboxd.
type Handler struct {
	svc    *review.Service
	apiKey string
	cors   bool
	log    logger.Logger
	health HealthCheck
}

// NewHandler creates a new API handler.
func NewHandler(svc *review.Service, opts Options) *Handler {
	h := &Handler{
		svc:    svc,
		apiKey: opts.APIKey,
		cors:   opts.CORS,
		log:    opts.Logger,
		health: opts.Health,
	}
	if h.log == nil {
		h.log = logger.NewNoOpLogger()
	}
	return h
}

// RegisterRoutes registers all API routes on the given ServeMux. Everything
// under /api is protected by the API key; health and metrics are not.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	auth := APIKeyAuth(h.apiKey)
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, auth(fn))
	}

	// Scoring
	handle("POST /api/v1/score", h.handleScore)

	// Assessment lifecycle
	handle("POST /api/v1/assessments", h.handleSaveDraft)
	handle("GET /api/v1/assessments/{id}", h.handleGetAssessment)
	handle("PATCH /api/v1/assessments/{id}", h.handleUpdateAnswers)
	handle("DELETE /api/v1/assessments/{id}", h.handleDeleteAssessment)
	handle("POST /api/v1/assessments/{id}/submit", h.handleSubmit)
	handle("GET /api/v1/employees/{employeeID}/assessments", h.handleListForEmployee)
	handle("GET /api/v1/periods/{period}/assessments", h.handleListForPeriod)

	// Maintenance and exports
	handle("POST /api/v1/rescore", h.handleRescore)
	handle("POST /api/v1/periods/{period}/export", h.handleExport)
	handle("GET /api/v1/periods/{period}/exports/{exportID}", h.handleGetExport)

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Routes returns the full handler chain: routes, request metrics and, when
// enabled, CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var handler http.Handler = RequestMetrics(mux)
	if h.cors {
		handler = CORS(handler)
	}
	return handler
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "dependency unreachable: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type fieldErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []assessment.FieldError `json:"fields"`
}

// writeServiceError maps domain errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *assessment.ValidationError
	var ferr *assessment.FormError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, fieldErrorResponse{Error: err.Error(), Fields: verr.Fields})
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse{Error: err.Error(), Fields: ferr.Fields})
	case errors.Is(err, records.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, review.ErrAlreadySubmitted), errors.Is(err, records.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, review.ErrMissingScope), errors.Is(err, blob.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.log.WithError(err).Error("request failed", nil)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes an optional JSON body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
