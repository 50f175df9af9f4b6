// Package apperr holds the failure kinds shared by the matching pipeline.
// Callers wrap them with fmt.Errorf("...: %w") and the HTTP layer maps them
// to statuses with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidInput is a local precondition failure, raised before any external call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means an unknown scholarship or profile id.
	ErrNotFound = errors.New("not found")

	// ErrInferenceUnavailable means the inference service could not be reached or errored.
	ErrInferenceUnavailable = errors.New("inference unavailable")

	// ErrMalformedInferenceOutput means the inference service responded but the text was unusable.
	ErrMalformedInferenceOutput = errors.New("malformed inference output")

	// ErrNoMatchesProduced means no ranking entry survived validation.
	ErrNoMatchesProduced = errors.New("no matches produced")
)

// Kind returns a stable machine-readable code for err, or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInferenceUnavailable):
		return "inference_unavailable"
	case errors.Is(err, ErrMalformedInferenceOutput):
		return "malformed_inference_output"
	case errors.Is(err, ErrNoMatchesProduced):
		return "no_matches_produced"
	default:
		return "internal"
	}
}
