package essay

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/inference"
)

// AnalyzedPriority is one priority the inference service read out of a scholarship.
type AnalyzedPriority struct {
	ID          string  `json:"id"`
	Label       string  `json:"label,omitempty"`
	BaseWeight  float64 `json:"base_weight"`
	Explanation string  `json:"explanation,omitempty"`
}

type Analysis struct {
	ScholarshipID       string             `json:"scholarship_id"`
	Priorities          []AnalyzedPriority `json:"priorities"`
	Justification       string             `json:"justification,omitempty"`
	WinnerInfluenceNote string             `json:"winner_influence_note,omitempty"`
}

type analysisPayload struct {
	Description   string              `json:"scholarship_description"`
	WinnerStories []catalog.Narrative `json:"winner_stories"`
}

// Analyze derives priority base weights for a scholarship from its
// description and winner stories. The result feeds the reweight flow.
func (o *Orchestrator) Analyze(ctx context.Context, scholarshipID string) (*Analysis, error) {
	s, err := o.catalog.Get(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}
	winners, err := o.catalog.WinnerStories(ctx, scholarshipID)
	if err != nil {
		return nil, fmt.Errorf("winner stories: %w", err)
	}
	if winners == nil {
		winners = []catalog.Narrative{}
	}

	raw, err := o.client.Infer(ctx, analysisInstructions, analysisPayload{
		Description:   s.Description,
		WinnerStories: winners,
	}, inference.WithMaxTokens(1024))
	if err != nil {
		return nil, fmt.Errorf("analyze: %w: %w", apperr.ErrInferenceUnavailable, err)
	}

	parsed, err := inference.DecodeObject[Analysis](raw)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	kept := parsed.Priorities[:0]
	for _, p := range parsed.Priorities {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" || p.BaseWeight < 0 || math.IsNaN(p.BaseWeight) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("analyze: no usable priorities: %w", apperr.ErrMalformedInferenceOutput)
	}
	if dropped := len(parsed.Priorities) - len(kept); dropped > 0 {
		o.logger.Warn("dropped invalid analysis priorities", "scholarship_id", s.ID, "dropped", dropped)
	}

	parsed.Priorities = kept
	parsed.ScholarshipID = s.ID
	return &parsed, nil
}
