package api

import (
	"net/http"
)

type rescoreRequest struct {
	Period string `json:"period"` // optional filter
}

// handleRescore recomputes stored results with the current engine and
// persists the rows that drifted.
func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	var req rescoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.svc.Rescore(r.Context(), req.Period)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.Export(r.Context(), r.PathValue("period"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) handleGetExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.GetExport(r.Context(), r.PathValue("period"), r.PathValue("exportID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
