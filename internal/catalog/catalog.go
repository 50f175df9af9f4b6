package catalog

import (
	"context"
	"fmt"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
)

type LegalStatus string

const (
	LegalStatusDomestic      LegalStatus = "domestic"
	LegalStatusInternational LegalStatus = "international"
	LegalStatusBoth          LegalStatus = "both"
)

// Scholarship is the canonical, strongly-typed catalog record.
type Scholarship struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Value        string      `json:"value,omitempty"`
	Deadline     string      `json:"deadline,omitempty"`
	LevelOfStudy string      `json:"level_of_study,omitempty"`
	Institution  string      `json:"institution,omitempty"`
	LegalStatus  LegalStatus `json:"legal_status"`
}

type StyleProfile struct {
	HookStyle       string `json:"hook_style,omitempty"`
	Tone            string `json:"tone,omitempty"`
	VoiceNotes      string `json:"voice_notes,omitempty"`
	EmotionalPacing string `json:"emotional_pacing,omitempty"`
	StructureNotes  string `json:"structure_notes,omitempty"`
}

// Narrative is a reference success story tagged with the priorities it demonstrates.
type Narrative struct {
	ID              string        `json:"id"`
	ScholarshipID   string        `json:"scholarship_id,omitempty"`
	ScholarshipName string        `json:"scholarship_name,omitempty"`
	RecipientName   string        `json:"recipient_name,omitempty"`
	RoleOrProgram   string        `json:"role_or_program,omitempty"`
	Year            int           `json:"year,omitempty"`
	StoryParagraphs []string      `json:"story_paragraphs,omitempty"`
	Source          string        `json:"source,omitempty"`
	Priorities      []string      `json:"priorities"`
	StyleProfile    *StyleProfile `json:"style_profile,omitempty"`
}

// Catalog is the read-only view of scholarships and reference narratives.
type Catalog interface {
	Get(ctx context.Context, id string) (*Scholarship, error)
	List(ctx context.Context) ([]Scholarship, error)
	Narratives(ctx context.Context) ([]Narrative, error)
	WinnerStories(ctx context.Context, scholarshipID string) ([]Narrative, error)
}

// Snapshot is an immutable in-memory Catalog. It is never mutated after
// construction, so concurrent readers need no locking.
type Snapshot struct {
	scholarships []Scholarship
	byID         map[string]int
	narratives   []Narrative
}

// NewSnapshot canonicalizes raw scholarship records and indexes them by id.
func NewSnapshot(raw []map[string]any, narratives []Narrative) (*Snapshot, error) {
	s := &Snapshot{
		scholarships: make([]Scholarship, 0, len(raw)),
		byID:         make(map[string]int, len(raw)),
		narratives:   narratives,
	}
	for i, r := range raw {
		rec := Canonicalize(r)
		if rec.ID == "" {
			return nil, fmt.Errorf("scholarship record %d: missing id", i)
		}
		if _, dup := s.byID[rec.ID]; dup {
			return nil, fmt.Errorf("scholarship record %d: duplicate id %q", i, rec.ID)
		}
		s.byID[rec.ID] = len(s.scholarships)
		s.scholarships = append(s.scholarships, rec)
	}
	return s, nil
}

func (s *Snapshot) Get(_ context.Context, id string) (*Scholarship, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("scholarship %s: %w", id, apperr.ErrNotFound)
	}
	rec := s.scholarships[i]
	return &rec, nil
}

// List returns a copy so callers cannot mutate the snapshot.
func (s *Snapshot) List(_ context.Context) ([]Scholarship, error) {
	out := make([]Scholarship, len(s.scholarships))
	copy(out, s.scholarships)
	return out, nil
}

func (s *Snapshot) Narratives(_ context.Context) ([]Narrative, error) {
	out := make([]Narrative, len(s.narratives))
	copy(out, s.narratives)
	return out, nil
}

func (s *Snapshot) WinnerStories(_ context.Context, scholarshipID string) ([]Narrative, error) {
	var out []Narrative
	for _, n := range s.narratives {
		if n.ScholarshipID == scholarshipID {
			out = append(out, n)
		}
	}
	return out, nil
}

// Len reports the number of scholarships in the snapshot.
func (s *Snapshot) Len() int { return len(s.scholarships) }
