// Package essay assembles narrative drafts from the outputs of the scoring
// and catalog packages. The prose itself comes from the inference service.
package essay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/inference"
	"github.com/MikeSquared-Agency/Northstar/internal/ranking"
	"github.com/MikeSquared-Agency/Northstar/internal/scoring"
)

type Request struct {
	ScholarshipID      string                      `json:"scholarship_id"`
	SelectedPriorities []scoring.PrioritySelection `json:"selected_priorities"`
	StudentProfile     ranking.Profile             `json:"student_profile"`
}

type Draft struct {
	ID                       string                      `json:"id"`
	Essay                    string                      `json:"essay"`
	ScholarshipID            string                      `json:"scholarship_id"`
	ScholarshipTitle         string                      `json:"scholarship_title"`
	WinnerStoryID            string                      `json:"winner_story_id,omitempty"`
	WinnerStoryRecipientName string                      `json:"winner_story_recipient_name,omitempty"`
	Priorities               []scoring.PrioritySelection `json:"priorities"`
	Weights                  scoring.NormalizedWeights   `json:"weights"`
	LocalScore               float64                     `json:"local_score"`
}

type scholarshipPayload struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Value        string `json:"value,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	LevelOfStudy string `json:"level_of_study,omitempty"`
	LegalStatus  string `json:"legal_status"`
	Institution  string `json:"institution"`
}

type generatePayload struct {
	StudentProfile     ranking.Profile             `json:"student_profile"`
	Scholarship        scholarshipPayload          `json:"scholarship"`
	SelectedPriorities []scoring.PrioritySelection `json:"selected_priorities"`
	StyleProfile       *catalog.StyleProfile       `json:"winner_story_style_profile"`
	StorySummary       string                      `json:"winner_story_summary,omitempty"`
}

type Orchestrator struct {
	catalog catalog.Catalog
	client  inference.Client
	logger  *slog.Logger
}

func NewOrchestrator(c catalog.Catalog, client inference.Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{catalog: c, client: client, logger: logger}
}

// Generate writes one essay draft. The selected priorities are normalized to
// sum to 1.0 and the closest reference narrative supplies the style layer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Draft, error) {
	if req.ScholarshipID == "" {
		return nil, fmt.Errorf("scholarship_id required: %w", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(req.StudentProfile.FullName) == "" {
		return nil, fmt.Errorf("student_profile.full_name required: %w", apperr.ErrInvalidInput)
	}
	if len(req.SelectedPriorities) == 0 {
		return nil, fmt.Errorf("at least one priority is required: %w", apperr.ErrInvalidInput)
	}
	if err := scoring.ValidateSelections(req.SelectedPriorities); err != nil {
		return nil, err
	}

	s, err := o.catalog.Get(ctx, req.ScholarshipID)
	if err != nil {
		return nil, err
	}

	weights := scoring.Proportional(req.SelectedPriorities)
	narratives, err := o.catalog.Narratives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list narratives: %w", err)
	}
	story, found := scoring.BestMatch(weights, narratives)

	payload := generatePayload{
		StudentProfile: req.StudentProfile,
		Scholarship: scholarshipPayload{
			ID:           s.ID,
			Title:        s.Title,
			Description:  s.Description,
			Value:        s.Value,
			Deadline:     s.Deadline,
			LevelOfStudy: s.LevelOfStudy,
			LegalStatus:  string(s.LegalStatus),
			Institution:  s.Institution,
		},
		SelectedPriorities: make([]scoring.PrioritySelection, 0, len(req.SelectedPriorities)),
	}
	for _, p := range req.SelectedPriorities {
		payload.SelectedPriorities = append(payload.SelectedPriorities, scoring.PrioritySelection{Name: p.Name, Weight: weights[p.Name]})
	}

	draft := &Draft{
		ID:               uuid.NewString(),
		ScholarshipID:    s.ID,
		ScholarshipTitle: s.Title,
		Priorities:       req.SelectedPriorities,
		Weights:          weights,
	}
	if found {
		payload.StyleProfile = story.StyleProfile
		payload.StorySummary = summarize(story.StoryParagraphs, 2)
		draft.WinnerStoryID = story.ID
		draft.WinnerStoryRecipientName = story.RecipientName
	}

	text, err := o.client.Infer(ctx, essayInstructions, payload,
		inference.WithMaxTokens(1200),
		inference.WithTemperature(0.6),
	)
	if err != nil {
		return nil, fmt.Errorf("generate essay: %w: %w", apperr.ErrInferenceUnavailable, err)
	}
	draft.Essay = strings.TrimSpace(text)
	if draft.Essay == "" {
		return nil, fmt.Errorf("generate essay: empty reply: %w", apperr.ErrMalformedInferenceOutput)
	}

	percent := make(map[string]float64, len(weights))
	for id, w := range weights {
		percent[id] = w * 100
	}
	draft.LocalScore = scoring.LocalScore(draft.Essay, percent)

	o.logger.Info("essay generated",
		"essay_id", draft.ID,
		"scholarship_id", s.ID,
		"winner_story_id", draft.WinnerStoryID,
		"local_score", draft.LocalScore,
	)
	return draft, nil
}

func summarize(paragraphs []string, n int) string {
	if len(paragraphs) > n {
		paragraphs = paragraphs[:n]
	}
	return strings.Join(paragraphs, "\n\n")
}
