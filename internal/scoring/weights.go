package scoring

import (
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
)

// ReweightTotal is the sum selected priorities share after Reweight.
const ReweightTotal = 100.0

// PriorityWeight is a user-adjustable priority with its base importance.
type PriorityWeight struct {
	ID         string  `json:"id"`
	BaseWeight float64 `json:"base_weight"`
}

// ReweightedPriority is a PriorityWeight with its share of ReweightTotal.
type ReweightedPriority struct {
	ID         string  `json:"id"`
	BaseWeight float64 `json:"base_weight"`
	NewWeight  float64 `json:"new_weight"`
}

// PrioritySelection is a named weight fed into style matching.
type PrioritySelection struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// NormalizedWeights maps a priority id to its normalized weight.
type NormalizedWeights map[string]float64

// Sum returns the total of all weights.
func (w NormalizedWeights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Reweight redistributes ReweightTotal across the selected priorities in
// proportion to their base weights. Unselected priorities keep their place
// in the output with a weight of 0. With nothing selected every base weight
// passes through unchanged.
func Reweight(priorities []PriorityWeight, selectedIDs []string) ([]ReweightedPriority, error) {
	if err := validatePriorities(priorities); err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	var count int
	var total float64
	for _, p := range priorities {
		if selected[p.ID] {
			count++
			total += p.BaseWeight
		}
	}

	out := make([]ReweightedPriority, len(priorities))
	for i, p := range priorities {
		out[i] = ReweightedPriority{ID: p.ID, BaseWeight: p.BaseWeight}
		switch {
		case count == 0:
			out[i].NewWeight = p.BaseWeight
		case !selected[p.ID]:
			out[i].NewWeight = 0
		case total == 0:
			out[i].NewWeight = ReweightTotal / float64(count)
		default:
			out[i].NewWeight = round2(p.BaseWeight / total * ReweightTotal)
		}
	}
	return out, nil
}

// Proportional scales weights so they sum to 1.0. When no weight is
// positive the distribution is split evenly.
func Proportional(selections []PrioritySelection) NormalizedWeights {
	out := make(NormalizedWeights, len(selections))
	if len(selections) == 0 {
		return out
	}

	var total float64
	for _, s := range selections {
		total += s.Weight
	}
	if total <= 0 {
		equal := 1.0 / float64(len(selections))
		for _, s := range selections {
			out[s.Name] = equal
		}
		return out
	}
	for _, s := range selections {
		out[s.Name] = s.Weight / total
	}
	return out
}

// ValidateSelections rejects negative weights, blank names and duplicates.
func ValidateSelections(selections []PrioritySelection) error {
	seen := make(map[string]bool, len(selections))
	for _, s := range selections {
		if s.Name == "" {
			return fmt.Errorf("priority name required: %w", apperr.ErrInvalidInput)
		}
		if s.Weight < 0 || math.IsNaN(s.Weight) {
			return fmt.Errorf("negative weight for %s: %w", s.Name, apperr.ErrInvalidInput)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate priority %s: %w", s.Name, apperr.ErrInvalidInput)
		}
		seen[s.Name] = true
	}
	return nil
}

func validatePriorities(priorities []PriorityWeight) error {
	seen := make(map[string]bool, len(priorities))
	for _, p := range priorities {
		if p.ID == "" {
			return fmt.Errorf("priority id required: %w", apperr.ErrInvalidInput)
		}
		if p.BaseWeight < 0 || math.IsNaN(p.BaseWeight) {
			return fmt.Errorf("negative base weight for %s: %w", p.ID, apperr.ErrInvalidInput)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate priority %s: %w", p.ID, apperr.ErrInvalidInput)
		}
		seen[p.ID] = true
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
