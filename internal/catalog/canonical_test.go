package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLegalStatus(t *testing.T) {
	cases := []struct {
		name        string
		explicit    string
		citizenship string
		want        LegalStatus
	}{
		{"explicit wins over citizenship", "Domestic", "International students only", LegalStatusDomestic},
		{"explicit is trimmed and lowered", "  BOTH ", "", LegalStatusBoth},
		{"unrecognized explicit kept as given", "Permanent Resident", "", LegalStatus("permanent resident")},
		{"both keywords", "", "Domestic;International", LegalStatusBoth},
		{"international only", "", "Open to International students", LegalStatusInternational},
		{"domestic only", "", "domestic students", LegalStatusDomestic},
		{"neither keyword fails open", "", "Canadian citizens", LegalStatusBoth},
		{"nothing at all", "", "", LegalStatusBoth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveLegalStatus(tc.explicit, tc.citizenship))
		})
	}
}

func TestCanonicalize_KeyAliases(t *testing.T) {
	rec := Canonicalize(map[string]any{
		"id":          json.Number("42"),
		"name":        "  Pearson Scholarship ",
		"description": "For leaders",
		"value":       json.Number("20000"),
		"faculty":     "Engineering",
		"residency":   "International",
	})

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, "Pearson Scholarship", rec.Title)
	assert.Equal(t, "20000", rec.Value)
	assert.Equal(t, "Engineering", rec.Institution)
	assert.Equal(t, LegalStatusInternational, rec.LegalStatus)
}

func TestCanonicalize_Precedence(t *testing.T) {
	rec := Canonicalize(map[string]any{
		"id":          "s1",
		"title":       "Title",
		"name":        "Name",
		"college":     "Trinity",
		"department":  "History",
		"citizenship": "Domestic",
	})
	assert.Equal(t, "Title", rec.Title)
	assert.Equal(t, "Trinity", rec.Institution)
	assert.Equal(t, LegalStatusDomestic, rec.LegalStatus)
}

func TestCanonicalize_Defaults(t *testing.T) {
	rec := Canonicalize(map[string]any{"id": "s1", "title": "T", "deadline": nil})
	assert.Equal(t, DefaultInstitution, rec.Institution)
	assert.Equal(t, LegalStatusBoth, rec.LegalStatus)
	assert.Empty(t, rec.Deadline)
}

func TestStringField_Types(t *testing.T) {
	raw := map[string]any{
		"f":   2500.5,
		"i":   7,
		"i64": int64(9),
		"b":   true,
	}
	assert.Equal(t, "2500.5", stringField(raw, "f"))
	assert.Equal(t, "7", stringField(raw, "i"))
	assert.Equal(t, "9", stringField(raw, "i64"))
	assert.Equal(t, "true", stringField(raw, "b"))
	assert.Equal(t, "", stringField(raw, "missing"))
}
