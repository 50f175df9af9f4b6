// Package eligibility narrows a scholarship catalog to the records a
// requester's residency permits.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
)

type Residency string

const (
	ResidencyDomestic      Residency = "domestic"
	ResidencyInternational Residency = "international"
)

// ParseResidency accepts "domestic" or "international" in any case.
func ParseResidency(s string) (Residency, error) {
	switch Residency(strings.ToLower(strings.TrimSpace(s))) {
	case ResidencyDomestic:
		return ResidencyDomestic, nil
	case ResidencyInternational:
		return ResidencyInternational, nil
	default:
		return "", fmt.Errorf("residency %q must be domestic or international: %w", s, apperr.ErrInvalidInput)
	}
}

// Eligible reports whether a record with the given status admits r.
func Eligible(status catalog.LegalStatus, r Residency) bool {
	switch r {
	case ResidencyDomestic:
		return status == catalog.LegalStatusDomestic || status == catalog.LegalStatusBoth
	case ResidencyInternational:
		return status == catalog.LegalStatusInternational || status == catalog.LegalStatusBoth
	default:
		return false
	}
}

// Filter returns the records eligible for r. See Partition.
func Filter(records []catalog.Scholarship, r Residency) []catalog.Scholarship {
	out, _ := Partition(records, r)
	return out
}

// FilterRaw canonicalizes untyped source records and filters them.
func FilterRaw(raw []map[string]any, r Residency) []catalog.Scholarship {
	records := make([]catalog.Scholarship, len(raw))
	for i, rec := range raw {
		records[i] = catalog.Canonicalize(rec)
	}
	return Filter(records, r)
}

// Partition returns the records eligible for r, preserving catalog order.
// If nothing qualifies from a non-empty catalog, every record is returned
// marked as open to both residencies and fellBack is true.
func Partition(records []catalog.Scholarship, r Residency) (eligible []catalog.Scholarship, fellBack bool) {
	eligible = make([]catalog.Scholarship, 0, len(records))
	for _, rec := range records {
		if Eligible(rec.LegalStatus, r) {
			eligible = append(eligible, rec)
		}
	}
	if len(eligible) > 0 || len(records) == 0 {
		return eligible, false
	}

	for _, rec := range records {
		rec.LegalStatus = catalog.LegalStatusBoth
		eligible = append(eligible, rec)
	}
	return eligible, true
}
