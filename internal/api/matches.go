package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/eligibility"
	"github.com/MikeSquared-Agency/Northstar/internal/events"
	"github.com/MikeSquared-Agency/Northstar/internal/metrics"
	"github.com/MikeSquared-Agency/Northstar/internal/ranking"
)

type MatchesHandler struct {
	catalog catalog.Catalog
	ranker  *ranking.Ranker
	events  events.Publisher
	topK    int
	logger  *slog.Logger
}

func NewMatchesHandler(c catalog.Catalog, r *ranking.Ranker, p events.Publisher, topK int, logger *slog.Logger) *MatchesHandler {
	return &MatchesHandler{catalog: c, ranker: r, events: p, topK: topK, logger: logger}
}

type MatchRequest struct {
	Profile ranking.Profile `json:"profile"`
	TopN    int             `json:"top_n,omitempty"` // at most ranking.DefaultTopK
}

type MatchedScholarship struct {
	catalog.Scholarship
	MatchPercentage float64 `json:"match_percentage"`
	Reason          string  `json:"reason,omitempty"`
}

type MatchResponse struct {
	RunID   string               `json:"run_id"`
	Matches []MatchedScholarship `json:"matches"`
}

// Match handles POST /api/v1/scholarships/match
func (h *MatchesHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", apperr.ErrInvalidInput))
		return
	}
	residency, err := eligibility.ParseResidency(req.Profile.ResidencyStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	k := clampTopK(h.topK, req.TopN)

	runID := uuid.NewString()
	all, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if len(all) == 0 {
		writeJSON(w, http.StatusOK, MatchResponse{RunID: runID, Matches: []MatchedScholarship{}})
		return
	}

	eligible, fellBack := eligibility.Partition(all, residency)
	if fellBack {
		metrics.EligibilityFallbacks.Inc()
		h.logger.Warn("no scholarship matched residency, using full catalog",
			"run_id", runID, "residency", residency, "catalog_size", len(all))
	}

	results, err := h.ranker.Rank(r.Context(), req.Profile, eligible, k)
	if err != nil {
		h.logger.Error("ranking failed", "run_id", runID, "kind", apperr.Kind(err), "error", err)
		h.publish(r.Context(), events.SubjectMatchFailed(runID), events.MatchFailedEvent{
			RunID:     runID,
			Kind:      apperr.Kind(err),
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		writeError(w, err)
		return
	}

	byID := make(map[string]catalog.Scholarship, len(eligible))
	for _, s := range eligible {
		byID[s.ID] = s
	}
	resp := MatchResponse{RunID: runID, Matches: make([]MatchedScholarship, 0, len(results))}
	for _, res := range results {
		resp.Matches = append(resp.Matches, MatchedScholarship{
			Scholarship:     byID[res.ScholarshipID],
			MatchPercentage: res.MatchPercentage,
			Reason:          res.Reason,
		})
	}

	h.publish(r.Context(), events.SubjectMatchCompleted(runID), events.MatchCompletedEvent{
		RunID:            runID,
		Residency:        string(residency),
		Eligible:         len(eligible),
		Returned:         len(resp.Matches),
		FellBack:         fellBack,
		TopScholarshipID: results[0].ScholarshipID,
		Timestamp:        time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, resp)
}

// clampTopK picks the result count for one request. A positive top_n may
// only shrink the configured limit, and nothing exceeds ranking.DefaultTopK.
func clampTopK(configured, requested int) int {
	k := configured
	if k <= 0 || k > ranking.DefaultTopK {
		k = ranking.DefaultTopK
	}
	if requested > 0 && requested < k {
		k = requested
	}
	return k
}

// publish outlives a disconnecting client so the run is still recorded.
func (h *MatchesHandler) publish(ctx context.Context, subject string, data interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(context.WithoutCancel(ctx), subject, data); err != nil {
		h.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
