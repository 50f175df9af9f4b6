package inference

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
)

// DecodeObject parses a reply that should be a single JSON object. It makes
// exactly two attempts: the whole text, then the span from the first '{' to
// the last '}'. Anything beyond that is treated as malformed output rather
// than repaired.
func DecodeObject[T any](raw string) (T, error) {
	var v T
	if err := decodeStrict(raw, &v); err == nil {
		return v, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		var zero T
		return zero, fmt.Errorf("no JSON object in reply: %w", apperr.ErrMalformedInferenceOutput)
	}

	var extracted T
	if err := decodeStrict(raw[start:end+1], &extracted); err != nil {
		var zero T
		return zero, fmt.Errorf("decode extracted object: %v: %w", err, apperr.ErrMalformedInferenceOutput)
	}
	return extracted, nil
}

func decodeStrict(text string, v any) error {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return fmt.Errorf("reply is not a JSON object")
	}
	return json.Unmarshal([]byte(text), v)
}
