package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultInstitution is used when a record names no awarding body at all.
const DefaultInstitution = "University of Toronto"

// Source catalogs use several key names for the same concept. Each list is
// tried in order and the first non-empty value wins.
var (
	titleKeys       = []string{"title", "name"}
	institutionKeys = []string{"institution", "college", "faculty", "division", "department", "unit", "offered_by"}
	citizenshipKeys = []string{"citizenship", "citizenship_status", "residency"}
)

// Canonicalize turns an untyped source record into a Scholarship. It is the
// only place heterogeneous key names are resolved.
func Canonicalize(raw map[string]any) Scholarship {
	s := Scholarship{
		ID:           stringField(raw, "id"),
		Title:        firstField(raw, titleKeys),
		Description:  stringField(raw, "description"),
		Value:        stringField(raw, "value"),
		Deadline:     stringField(raw, "deadline"),
		LevelOfStudy: stringField(raw, "level_of_study"),
		Institution:  firstField(raw, institutionKeys),
		LegalStatus:  ResolveLegalStatus(stringField(raw, "legal_status"), firstField(raw, citizenshipKeys)),
	}
	if s.Institution == "" {
		s.Institution = DefaultInstitution
	}
	return s
}

// ResolveLegalStatus applies the canonicalization precedence: an explicit
// legal_status is lower-cased and used as-is; otherwise the citizenship text
// is searched for the two residency keywords. Text naming neither keyword
// resolves to both.
func ResolveLegalStatus(explicit, citizenship string) LegalStatus {
	if v := strings.ToLower(strings.TrimSpace(explicit)); v != "" {
		return LegalStatus(v)
	}
	text := strings.ToLower(citizenship)
	domestic := strings.Contains(text, "domestic")
	international := strings.Contains(text, "international")
	switch {
	case domestic && !international:
		return LegalStatusDomestic
	case international && !domestic:
		return LegalStatusInternational
	default:
		return LegalStatusBoth
	}
}

func firstField(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if v := stringField(raw, k); v != "" {
			return v
		}
	}
	return ""
}

func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
