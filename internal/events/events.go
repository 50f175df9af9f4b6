package events

import "time"

const (
	StreamName     = "NORTHSTAR_EVENTS"
	StreamSubjects = "northstar.>"
	StreamMaxAge   = "168h" // 7 days
)

func SubjectMatchCompleted(runID string) string { return "northstar.match." + runID + ".completed" }
func SubjectMatchFailed(runID string) string    { return "northstar.match." + runID + ".failed" }
func SubjectEssayGenerated(essayID string) string {
	return "northstar.essay." + essayID + ".generated"
}

type MatchCompletedEvent struct {
	RunID            string    `json:"run_id"`
	Residency        string    `json:"residency"`
	Eligible         int       `json:"eligible"`
	Returned         int       `json:"returned"`
	FellBack         bool      `json:"eligibility_fell_back"`
	TopScholarshipID string    `json:"top_scholarship_id,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type MatchFailedEvent struct {
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type EssayGeneratedEvent struct {
	EssayID       string    `json:"essay_id"`
	ScholarshipID string    `json:"scholarship_id"`
	NarrativeID   string    `json:"narrative_id,omitempty"`
	LocalScore    float64   `json:"local_score"`
	Words         int       `json:"words"`
	Timestamp     time.Time `json:"timestamp"`
}
