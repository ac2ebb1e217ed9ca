package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

func TestParseIntent(t *testing.T) {
	cases := []struct {
		out  string
		want domain.Intent
	}{
		{"APPROVED", domain.IntentApproved},
		{"  approved \n", domain.IntentApproved},
		{"The category is REVISION.", domain.IntentRevision},
		{"FETCH", domain.IntentFetch},
		{"CONTINUE", domain.IntentContinue},
		{"SUMMARY", domain.IntentSummary},
		{"RESET", domain.IntentReset},
		{"ADVICE", domain.IntentAdvice},
		{"I am not sure", domain.IntentUnclear},
		{"", domain.IntentUnclear},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseIntent(tc.out), "out=%q", tc.out)
	}
}

func TestBuildIntentPromptCarriesSessionContext(t *testing.T) {
	sctx := domain.SessionContext{
		HasSession: true,
		Position:   2,
		Total:      5,
		CurrentItem: &domain.ReviewItem{
			Author: "Maria",
			Rating: 2,
			Text:   "cold food",
		},
	}

	prompt := BuildIntentPrompt("change the tone", sctx)
	assert.Contains(t, prompt, "change the tone")
	assert.Contains(t, prompt, "2 of 5")
}

func TestMockClassifyIntent(t *testing.T) {
	mock := NewMockLLM()
	ctx := context.Background()

	inSession := domain.SessionContext{HasSession: true}

	cases := []struct {
		text string
		sctx domain.SessionContext
		want domain.Intent
	}{
		{"get reviews", domain.SessionContext{}, domain.IntentFetch},
		{"show me a summary", inSession, domain.IntentSummary},
		{"start over", inSession, domain.IntentReset},
		{"continue please", inSession, domain.IntentContinue},
		{"how do i handle rude customers", domain.SessionContext{}, domain.IntentAdvice},
		{"approve", inSession, domain.IntentApproved},
		{"make it shorter", inSession, domain.IntentRevision},
		// Approval words mean nothing without a session to act on.
		{"approve", domain.SessionContext{}, domain.IntentUnclear},
		{"gibberish", inSession, domain.IntentUnclear},
	}

	for _, tc := range cases {
		got, err := mock.ClassifyIntent(ctx, tc.text, tc.sctx)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "text=%q", tc.text)
	}
}

func TestMockReviseKeepsFeedbackVisible(t *testing.T) {
	mock := NewMockLLM()
	out, err := mock.ReviseResponse(context.Background(), domain.RevisionRequest{
		CurrentResponse: "Dear Tom, sorry.",
		Feedback:        "offer a voucher",
	})
	assert.NoError(t, err)
	assert.Contains(t, out, "Dear Tom, sorry.")
	assert.Contains(t, out, "offer a voucher")
}
