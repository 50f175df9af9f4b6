package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/inference"
	"github.com/MikeSquared-Agency/Northstar/internal/metrics"
)

// DefaultTopK is how many results Rank keeps when k is not positive.
const DefaultTopK = 5

// Profile is the student information the inference service scores against.
type Profile struct {
	FullName        string   `json:"full_name,omitempty"`
	University      string   `json:"university,omitempty"`
	Program         string   `json:"program,omitempty"`
	Year            int      `json:"year,omitempty"`
	ResidencyStatus string   `json:"residency_status"`
	Ethnicity       string   `json:"ethnicity,omitempty"`
	Experiences     []string `json:"experiences,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	Awards          []string `json:"awards,omitempty"`
}

// Result is one scholarship's inferred compatibility with a profile.
type Result struct {
	ScholarshipID   string  `json:"scholarship_id"`
	MatchPercentage float64 `json:"match_percentage"`
	Reason          string  `json:"reason,omitempty"`
}

type summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Value        string `json:"value,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	LevelOfStudy string `json:"level_of_study,omitempty"`
	LegalStatus  string `json:"legal_status"`
	Description  string `json:"description"`
}

type request struct {
	StudentProfile Profile   `json:"student_profile"`
	Scholarships   []summary `json:"scholarships"`
}

type reply struct {
	Matches []json.RawMessage `json:"matches"`
}

// Ranker asks the inference service to score eligible scholarships and turns
// its reply into a validated top-k ranking. It holds no per-request state.
type Ranker struct {
	client inference.Client
	logger *slog.Logger
}

func NewRanker(client inference.Client, logger *slog.Logger) *Ranker {
	return &Ranker{client: client, logger: logger}
}

// Rank makes a single inference call. Failures are never retried here.
func (r *Ranker) Rank(ctx context.Context, profile Profile, eligible []catalog.Scholarship, k int) ([]Result, error) {
	results, err := r.rank(ctx, profile, eligible, k)
	metrics.RecordRanking(err)
	return results, err
}

func (r *Ranker) rank(ctx context.Context, profile Profile, eligible []catalog.Scholarship, k int) ([]Result, error) {
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no eligible scholarships to rank: %w", apperr.ErrInvalidInput)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	req := request{StudentProfile: profile, Scholarships: make([]summary, len(eligible))}
	known := make(map[string]bool, len(eligible))
	for i, s := range eligible {
		req.Scholarships[i] = summary{
			ID:           s.ID,
			Title:        s.Title,
			Value:        s.Value,
			Deadline:     s.Deadline,
			LevelOfStudy: s.LevelOfStudy,
			LegalStatus:  string(s.LegalStatus),
			Description:  s.Description,
		}
		known[s.ID] = true
	}

	raw, err := r.client.Infer(ctx, systemInstructions, req,
		inference.WithMaxTokens(2048),
		inference.WithTemperature(0.2),
	)
	if err != nil {
		return nil, fmt.Errorf("rank: %w: %w", apperr.ErrInferenceUnavailable, err)
	}

	parsed, err := inference.DecodeObject[reply](raw)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	results, dropped := collect(parsed.Matches, known)
	if dropped > 0 {
		metrics.DroppedEntries.Add(float64(dropped))
		r.logger.Warn("dropped invalid ranking entries", "dropped", dropped, "kept", len(results))
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("rank: %d entries, none valid: %w", len(parsed.Matches), apperr.ErrNoMatchesProduced)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPercentage > results[j].MatchPercentage
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// collect validates entries and deduplicates by id. A repeated id replaces
// the earlier value but keeps the earlier position.
func collect(entries []json.RawMessage, known map[string]bool) ([]Result, int) {
	var results []Result
	index := make(map[string]int)
	dropped := 0

	for _, entry := range entries {
		res, ok := parseEntry(entry)
		if !ok || !known[res.ScholarshipID] {
			dropped++
			continue
		}
		if i, seen := index[res.ScholarshipID]; seen {
			results[i] = res
			continue
		}
		index[res.ScholarshipID] = len(results)
		results = append(results, res)
	}
	return results, dropped
}

func parseEntry(entry json.RawMessage) (Result, bool) {
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Result{}, false
	}

	id, ok := idValue(fields["scholarship_id"])
	if !ok {
		return Result{}, false
	}
	pct, ok := numericValue(fields["match_percentage"])
	if !ok {
		return Result{}, false
	}
	reason, _ := fields["reason"].(string)
	return Result{ScholarshipID: id, MatchPercentage: pct, Reason: strings.TrimSpace(reason)}, true
}

func idValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func numericValue(v any) (float64, bool) {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
