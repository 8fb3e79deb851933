package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/jrsteele09/go-identity-bridge/prediction"
)

type predictRequest struct {
	Features        json.RawMessage `json:"features"`
	TaskDescription string          `json:"task_description"`
}

// PredictHandler proxies feature vectors to the inference service and
// falls back to keyword categorisation when only a description is sent
func (s *Server) PredictHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			respondError(w, r, err)
			return
		}

		if len(req.Features) > 0 && string(req.Features) != "null" {
			var features []float64
			if err := json.Unmarshal(req.Features, &features); err != nil {
				respondError(w, r, apperrors.Wrapf(apperrors.ErrValidation, "features must be an array of numbers"))
				return
			}

			result, err := s.predictor.Predict(r.Context(), features)
			if err != nil {
				respondError(w, r, err)
				return
			}
			writeJSON(w, map[string]float64{"prediction": result}, http.StatusOK)
			return
		}

		if req.TaskDescription == "" {
			writeJSONError(w, "Missing input for prediction", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"predicted_category": prediction.Categorize(req.TaskDescription)}, http.StatusOK)
	}
}
