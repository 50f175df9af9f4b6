package api

import (
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/scoring"
)

type WeightsHandler struct{}

func NewWeightsHandler() *WeightsHandler {
	return &WeightsHandler{}
}

type ReweightRequest struct {
	Priorities  []scoring.PriorityWeight `json:"priorities"`
	SelectedIDs []string                 `json:"selected_ids"`
}

type ReweightResponse struct {
	Priorities []scoring.ReweightedPriority `json:"priorities"`
}

// Reweight handles POST /api/v1/weights/reweight
func (h *WeightsHandler) Reweight(w http.ResponseWriter, r *http.Request) {
	var req ReweightRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidInput))
		return
	}

	out, err := scoring.Reweight(req.Priorities, req.SelectedIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReweightResponse{Priorities: out})
}
