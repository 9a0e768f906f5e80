package api

import (
	"mime"
	"net/http"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

type scoreResponse struct {
	scoring.ScoreResult
	PerformanceLabel string `json:"performance_label"`
	PotentialLabel   string `json:"potential_label"`
}

func newScoreResponse(res scoring.ScoreResult) scoreResponse {
	return scoreResponse{
		ScoreResult:      res,
		PerformanceLabel: scoring.PerformanceLabel(res.PerformanceCategory),
		PotentialLabel:   scoring.PotentialLabel(res.PotentialCategory),
	}
}

// handleScore returns the live preview for a partially or fully answered form.
// It accepts a JSON AssessmentInput or a urlencoded form using the same keys.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newScoreResponse(h.svc.Preview(in)))
}

func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (scoring.AssessmentInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return scoring.AssessmentInput{}, &assessment.FormError{
				Fields: []assessment.FieldError{{Field: "body", Message: err.Error()}},
			}
		}
		values := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			values[k] = r.PostForm.Get(k)
		}
		return assessment.ParseForm(values)
	}

	var in scoring.AssessmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		return in, &assessment.FormError{
			Fields: []assessment.FieldError{{Field: "body", Message: "invalid JSON: " + err.Error()}},
		}
	}
	return in, nil
}
