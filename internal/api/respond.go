package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps a failure kind to its HTTP status. An unreachable service
// is 503 and safe to retry; a reply that could not be used is 502, with the
// body code telling the two unusable-reply kinds apart.
func statusFor(err error) int {
	switch apperr.Kind(err) {
	case "invalid_input":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "inference_unavailable":
		return http.StatusServiceUnavailable
	case "malformed_inference_output", "no_matches_produced":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error(), Code: apperr.Kind(err)})
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
