package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/inference"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockClient implements inference.Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Infer(ctx context.Context, system string, payload any, opts ...inference.CallOption) (string, error) {
	args := m.Called(ctx, system, payload)
	return args.String(0), args.Error(1)
}

func replying(text string) *MockClient {
	m := &MockClient{}
	m.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(text, nil)
	return m
}

func eligibleSet(n int) []catalog.Scholarship {
	out := make([]catalog.Scholarship, n)
	for i := range out {
		out[i] = catalog.Scholarship{
			ID:          fmt.Sprintf("s%d", i+1),
			Title:       fmt.Sprintf("Scholarship %d", i+1),
			LegalStatus: catalog.LegalStatusBoth,
		}
	}
	return out
}

var profile = Profile{FullName: "Sam Lee", Program: "Engineering", ResidencyStatus: "domestic"}

func TestRank_TopFiveSortedDescending(t *testing.T) {
	client := replying(`{"matches":[
		{"scholarship_id":"s1","match_percentage":40,"reason":"ok"},
		{"scholarship_id":"s2","match_percentage":90},
		{"scholarship_id":"s3","match_percentage":75},
		{"scholarship_id":"s4","match_percentage":10},
		{"scholarship_id":"s5","match_percentage":88},
		{"scholarship_id":"s6","match_percentage":60},
		{"scholarship_id":"s7","match_percentage":55}
	]}`)
	r := NewRanker(client, discardLogger())

	results, err := r.Rank(context.Background(), profile, eligibleSet(7), 0)
	require.NoError(t, err)
	require.Len(t, results, 5)

	var got []string
	for _, res := range results {
		got = append(got, res.ScholarshipID)
	}
	assert.Equal(t, []string{"s2", "s5", "s3", "s6", "s7"}, got)
	client.AssertNumberOfCalls(t, "Infer", 1)
}

func TestRank_ExplicitK(t *testing.T) {
	client := replying(`{"matches":[{"scholarship_id":"s1","match_percentage":1},{"scholarship_id":"s2","match_percentage":2}]}`)
	results, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(2), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s2", results[0].ScholarshipID)
}

func TestRank_ProseWrappedReply(t *testing.T) {
	client := replying("Sure! Here is the ranking:\n```json\n{\"matches\":[{\"scholarship_id\":\"s1\",\"match_percentage\":87.5,\"reason\":\"strong fit\"}]}\n```")
	results, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(1), 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 87.5, results[0].MatchPercentage)
	assert.Equal(t, "strong fit", results[0].Reason)
}

func TestRank_DuplicateIDLastValueFirstPosition(t *testing.T) {
	client := replying(`{"matches":[
		{"scholarship_id":"s1","match_percentage":50,"reason":"first"},
		{"scholarship_id":"s2","match_percentage":70},
		{"scholarship_id":"s1","match_percentage":70,"reason":"second"}
	]}`)
	results, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(2), 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Equal percentages keep first-occurrence order under the stable sort.
	assert.Equal(t, "s1", results[0].ScholarshipID)
	assert.Equal(t, 70.0, results[0].MatchPercentage)
	assert.Equal(t, "second", results[0].Reason)
	assert.Equal(t, "s2", results[1].ScholarshipID)
}

func TestRank_InvalidEntriesDropped(t *testing.T) {
	client := replying(`{"matches":[
		{"scholarship_id":"s1","match_percentage":"high"},
		{"match_percentage":80},
		{"scholarship_id":"unknown","match_percentage":99},
		{"scholarship_id":"s2"},
		{"scholarship_id":"s3","match_percentage":"64.5"},
		"garbage",
		{"scholarship_id":"s4","match_percentage":120}
	]}`)
	results, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(4), 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "s4", results[0].ScholarshipID)
	assert.Equal(t, 120.0, results[0].MatchPercentage, "out-of-range values are not clamped")
	assert.Equal(t, "s3", results[1].ScholarshipID)
	assert.Equal(t, 64.5, results[1].MatchPercentage)
}

func TestRank_NumericIDs(t *testing.T) {
	eligible := []catalog.Scholarship{{ID: "42", LegalStatus: catalog.LegalStatusBoth}}
	client := replying(`{"matches":[{"scholarship_id":42,"match_percentage":66}]}`)
	results, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligible, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "42", results[0].ScholarshipID)
}

func TestRank_Errors(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		err   error
		want  error
	}{
		{"unavailable", "", errors.New("connection refused"), apperr.ErrInferenceUnavailable},
		{"malformed", "I cannot help with that.", nil, apperr.ErrMalformedInferenceOutput},
		{"no matches key", `{"results":[]}`, nil, apperr.ErrNoMatchesProduced},
		{"all invalid", `{"matches":[{"scholarship_id":"nope","match_percentage":50}]}`, nil, apperr.ErrNoMatchesProduced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &MockClient{}
			client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(tc.reply, tc.err)

			results, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(3), 5)
			assert.Nil(t, results)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRank_UnavailableKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	client := &MockClient{}
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return("", cause)

	_, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(1), 5)
	assert.ErrorIs(t, err, apperr.ErrInferenceUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestRank_EmptyEligibleNeverCallsInference(t *testing.T) {
	client := &MockClient{}
	_, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, nil, 5)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	client.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything, mock.Anything)
}

func TestRank_RequestCarriesProfileAndSummaries(t *testing.T) {
	client := &MockClient{}
	client.On("Infer", mock.Anything, systemInstructions, mock.MatchedBy(func(payload any) bool {
		data, err := json.Marshal(payload)
		if err != nil {
			return false
		}
		var req struct {
			StudentProfile Profile          `json:"student_profile"`
			Scholarships   []map[string]any `json:"scholarships"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return false
		}
		return req.StudentProfile.FullName == "Sam Lee" && len(req.Scholarships) == 2 && req.Scholarships[1]["id"] == "s2"
	})).Return(`{"matches":[{"scholarship_id":"s1","match_percentage":1}]}`, nil)

	_, err := NewRanker(client, discardLogger()).Rank(context.Background(), profile, eligibleSet(2), 5)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestRank_FreshResultsPerCall(t *testing.T) {
	client := &MockClient{}
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"matches":[{"scholarship_id":"s1","match_percentage":10}]}`, nil).Once()
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"matches":[{"scholarship_id":"s1","match_percentage":90}]}`, nil).Once()

	r := NewRanker(client, discardLogger())
	first, err := r.Rank(context.Background(), profile, eligibleSet(1), 5)
	require.NoError(t, err)
	second, err := r.Rank(context.Background(), profile, eligibleSet(1), 5)
	require.NoError(t, err)

	assert.Equal(t, 10.0, first[0].MatchPercentage)
	assert.Equal(t, 90.0, second[0].MatchPercentage)
}
