package scoring

import (
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
)

// NarrativeScore is the sparse dot product of the weights with the
// narrative's priority set. Priorities absent from weights contribute 0.
func NarrativeScore(weights NormalizedWeights, n catalog.Narrative) float64 {
	var score float64
	for _, p := range n.Priorities {
		score += weights[p]
	}
	return score
}

// BestMatch returns the narrative with the strictly highest score. Ties go
// to the earliest narrative. It reports false when either input is empty.
func BestMatch(weights NormalizedWeights, narratives []catalog.Narrative) (*catalog.Narrative, bool) {
	if len(weights) == 0 || len(narratives) == 0 {
		return nil, false
	}

	best := 0
	bestScore := NarrativeScore(weights, narratives[0])
	for i := 1; i < len(narratives); i++ {
		if score := NarrativeScore(weights, narratives[i]); score > bestScore {
			best, bestScore = i, score
		}
	}
	n := narratives[best]
	return &n, true
}
