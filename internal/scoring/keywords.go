package scoring

import (
	"regexp"
	"strings"
)

// LocalScore is a deterministic essay score that needs no inference call.
// Each priority id is turned into a phrase ("community_service" becomes
// "community service"); a whole-word, case-insensitive occurrence in the
// essay adds that priority's weight. The result is capped at 100.
func LocalScore(essay string, weights map[string]float64) float64 {
	text := strings.ToLower(essay)
	var score float64
	for id, weight := range weights {
		phrase := strings.ToLower(strings.ReplaceAll(id, "_", " "))
		if phrase == "" {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
		if re.MatchString(text) {
			score += weight
		}
	}
	if score > 100 {
		return 100
	}
	return score
}
