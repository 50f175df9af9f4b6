package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
)

func narratives() []catalog.Narrative {
	return []catalog.Narrative{
		{ID: "n1", Priorities: []string{"leadership"}},
		{ID: "n2", Priorities: []string{"community", "resilience"}},
		{ID: "n3", Priorities: []string{"leadership", "community"}},
		{ID: "n4"},
	}
}

func TestNarrativeScore(t *testing.T) {
	w := NormalizedWeights{"leadership": 0.5, "community": 0.3}
	assert.InDelta(t, 0.8, NarrativeScore(w, narratives()[2]), 1e-9)
	assert.InDelta(t, 0.3, NarrativeScore(w, narratives()[1]), 1e-9)
	assert.Equal(t, 0.0, NarrativeScore(w, narratives()[3]))
}

func TestBestMatch_HighestScoreWins(t *testing.T) {
	w := NormalizedWeights{"leadership": 0.5, "community": 0.3, "resilience": 0.2}
	best, ok := BestMatch(w, narratives())
	require.True(t, ok)
	assert.Equal(t, "n3", best.ID)
}

func TestBestMatch_TieGoesToFirst(t *testing.T) {
	w := NormalizedWeights{"leadership": 0.5, "community": 0.5}
	list := []catalog.Narrative{
		{ID: "first", Priorities: []string{"leadership"}},
		{ID: "second", Priorities: []string{"community"}},
	}
	best, ok := BestMatch(w, list)
	require.True(t, ok)
	assert.Equal(t, "first", best.ID)
}

func TestBestMatch_AllZeroReturnsFirst(t *testing.T) {
	w := NormalizedWeights{"unrelated": 1}
	best, ok := BestMatch(w, narratives())
	require.True(t, ok)
	assert.Equal(t, "n1", best.ID)
}

func TestBestMatch_EmptyInputs(t *testing.T) {
	_, ok := BestMatch(NormalizedWeights{"a": 1}, nil)
	assert.False(t, ok)

	_, ok = BestMatch(NormalizedWeights{}, narratives())
	assert.False(t, ok)
}

func TestBestMatch_Deterministic(t *testing.T) {
	w := NormalizedWeights{"community": 0.4, "resilience": 0.4, "leadership": 0.2}
	first, _ := BestMatch(w, narratives())
	for i := 0; i < 20; i++ {
		again, _ := BestMatch(w, narratives())
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestBestMatch_ReturnsCopy(t *testing.T) {
	list := narratives()
	best, ok := BestMatch(NormalizedWeights{"leadership": 1}, list)
	require.True(t, ok)
	best.ID = "mutated"
	assert.Equal(t, "n1", list[0].ID)
}

func TestLocalScore(t *testing.T) {
	weights := map[string]float64{
		"community_service": 40,
		"leadership":        35,
		"research":          25,
	}

	t.Run("whole words only", func(t *testing.T) {
		essay := "My Community Service shaped me. I led a team, showing leadership."
		assert.Equal(t, 75.0, LocalScore(essay, weights))
	})

	t.Run("partial word does not count", func(t *testing.T) {
		assert.Equal(t, 0.0, LocalScore("researchers and leaderships", weights))
	})

	t.Run("capped at one hundred", func(t *testing.T) {
		heavy := map[string]float64{"a": 80, "b": 80}
		assert.Equal(t, 100.0, LocalScore("a b", heavy))
	})

	t.Run("empty essay", func(t *testing.T) {
		assert.Equal(t, 0.0, LocalScore("", weights))
	})
}
