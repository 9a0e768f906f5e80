package api

import (
	"net/http"

	"github.com/ninebox/ninebox/internal/review"
	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

type assessmentResponse struct {
	*assessment.Record
	PerformanceLabel string `json:"performance_label"`
	PotentialLabel   string `json:"potential_label"`
}

func newAssessmentResponse(rec *assessment.Record) assessmentResponse {
	return assessmentResponse{
		Record:           rec,
		PerformanceLabel: scoring.PerformanceLabel(rec.Result.PerformanceCategory),
		PotentialLabel:   scoring.PotentialLabel(rec.Result.PotentialCategory),
	}
}

func newAssessmentList(recs []*assessment.Record) []assessmentResponse {
	out := make([]assessmentResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newAssessmentResponse(rec))
	}
	return out
}

func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req review.DraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.svc.SaveDraft(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentResponse(rec))
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentResponse(rec))
}

// handleUpdateAnswers replaces a draft's answers. The body is the full answer
// set; omitted questions become unanswered.
func (h *Handler) handleUpdateAnswers(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	rec, err := h.svc.UpdateAnswers(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentResponse(rec))
}

func (h *Handler) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentResponse(rec))
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListForEmployee(r.Context(), r.PathValue("employeeID"), r.URL.Query().Get("period"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentList(recs))
}

func (h *Handler) handleListForPeriod(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListForPeriod(r.Context(), r.PathValue("period"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentList(recs))
}
