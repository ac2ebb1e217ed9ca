package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// MockLLM is the deterministic stand-in for Gemini used in local mode and
// tests. Classification is plain keyword matching; generation is templated
// text.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) ClassifyIntent(ctx context.Context, text string, sctx domain.SessionContext) (domain.Intent, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	switch {
	case containsAny(lower, "get reviews", "fetch", "new reviews", "latest reviews"):
		return domain.IntentFetch, nil
	case containsAny(lower, "summary", "progress"):
		return domain.IntentSummary, nil
	case containsAny(lower, "reset", "start over"):
		return domain.IntentReset, nil
	case containsAny(lower, "continue", "next", "resume"):
		return domain.IntentContinue, nil
	case containsAny(lower, "advice", "recommend", "how do i", "how should"):
		return domain.IntentAdvice, nil
	}

	if !sctx.HasSession || sctx.Completed {
		return domain.IntentUnclear, nil
	}
	switch {
	case containsAny(lower, "approve", "good", "yes", "ok", "send", "perfect", "👍"):
		return domain.IntentApproved, nil
	case containsAny(lower, "revise", "change", "edit", "discount", "offer", "fix", "warmer", "shorter"):
		return domain.IntentRevision, nil
	}
	return domain.IntentUnclear, nil
}

func (m *MockLLM) ReviseResponse(ctx context.Context, req domain.RevisionRequest) (string, error) {
	return fmt.Sprintf("%s\n\nP.S. Updated per your note: %s", req.CurrentResponse, req.Feedback), nil
}

func (m *MockLLM) SummarizeReview(ctx context.Context, text string) (string, error) {
	if len(text) <= 140 {
		return text, nil
	}
	return text[:140] + "...", nil
}

func (m *MockLLM) DraftResponse(ctx context.Context, item *domain.ReviewItem, restaurant string) (string, error) {
	if item.Sentiment == domain.SentimentPositive {
		return fmt.Sprintf("Dear %s,\n\nThank you so much for the kind words about %s! We're thrilled you enjoyed your visit and hope to welcome you back soon.\n\nWarm regards,\nRestaurant Manager", item.Author, restaurant), nil
	}
	return fmt.Sprintf("Dear %s,\n\nThank you for sharing your experience at %s. We're sorry we fell short and would love the chance to make it right on your next visit.\n\nWarm regards,\nRestaurant Manager", item.Author, restaurant), nil
}

func (m *MockLLM) Advise(ctx context.Context, question string) (string, error) {
	return fmt.Sprintf("Here's a thought on %q: start by measuring it for a week, then change one thing at a time.", question), nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
