package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/essay"
	"github.com/MikeSquared-Agency/Northstar/internal/events"
)

type EssaysHandler struct {
	essays *essay.Orchestrator
	events events.Publisher
	logger *slog.Logger
}

func NewEssaysHandler(e *essay.Orchestrator, p events.Publisher, logger *slog.Logger) *EssaysHandler {
	return &EssaysHandler{essays: e, events: p, logger: logger}
}

// Generate handles POST /api/v1/essays/generate
func (h *EssaysHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req essay.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidInput))
		return
	}

	draft, err := h.essays.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.events != nil {
		evt := events.EssayGeneratedEvent{
			EssayID:       draft.ID,
			ScholarshipID: draft.ScholarshipID,
			NarrativeID:   draft.WinnerStoryID,
			LocalScore:    draft.LocalScore,
			Words:         len(strings.Fields(draft.Essay)),
			Timestamp:     time.Now().UTC(),
		}
		if err := h.events.Publish(context.WithoutCancel(r.Context()), events.SubjectEssayGenerated(draft.ID), evt); err != nil {
			h.logger.Warn("failed to publish event", "essay_id", draft.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, draft)
}
