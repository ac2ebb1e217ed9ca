package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

func TestStateOf(t *testing.T) {
	t.Run("nil session is NO_SESSION", func(t *testing.T) {
		assert.Equal(t, StateNoSession, StateOf(nil))
	})

	t.Run("pending items await a decision", func(t *testing.T) {
		s := &domain.Session{
			Items:     []*domain.ReviewItem{{Text: "cold food", Rating: 2}},
			Lifecycle: domain.LifecycleInitialized,
		}
		assert.Equal(t, StateAwaitingDecision, StateOf(s))
	})

	t.Run("feedback flag wins over pending items", func(t *testing.T) {
		s := &domain.Session{
			Items:            []*domain.ReviewItem{{Text: "cold food", Rating: 2}},
			Lifecycle:        domain.LifecycleInitialized,
			AwaitingFeedback: true,
		}
		assert.Equal(t, StateAwaitingFeedback, StateOf(s))
	})

	t.Run("cursor past the last item is ALL_COMPLETED", func(t *testing.T) {
		s := &domain.Session{
			Items:     []*domain.ReviewItem{{Text: "cold food", Rating: 2}},
			Cursor:    1,
			Lifecycle: domain.LifecycleInitialized,
		}
		assert.Equal(t, StateAllCompleted, StateOf(s))
	})

	t.Run("completed lifecycle is ALL_COMPLETED regardless of cursor", func(t *testing.T) {
		s := &domain.Session{Lifecycle: domain.LifecycleCompleted}
		assert.Equal(t, StateAllCompleted, StateOf(s))
	})
}

func TestTransitionIsTotal(t *testing.T) {
	states := []State{StateNoSession, StateAwaitingDecision, StateAwaitingFeedback, StateAllCompleted}
	intents := []domain.Intent{
		domain.IntentApproved, domain.IntentRevision, domain.IntentUnclear,
		domain.IntentFetch, domain.IntentContinue, domain.IntentSummary,
		domain.IntentReset, domain.IntentAdvice, domain.Intent("GARBAGE"),
	}

	for _, state := range states {
		for _, intent := range intents {
			action := Transition(state, intent)
			assert.NotEmpty(t, action, "state=%s intent=%s", state, intent)
		}
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name   string
		state  State
		intent domain.Intent
		want   Action
	}{
		{"no session, fetch starts ingestion", StateNoSession, domain.IntentFetch, ActionTriggerIngestion},
		{"no session, approval gets welcome", StateNoSession, domain.IntentApproved, ActionWelcome},
		{"no session, unclear gets welcome", StateNoSession, domain.IntentUnclear, ActionWelcome},
		{"no session, advice is answered", StateNoSession, domain.IntentAdvice, ActionAdvice},

		{"decision, approve advances", StateAwaitingDecision, domain.IntentApproved, ActionApproveAdvance},
		{"decision, revision revises", StateAwaitingDecision, domain.IntentRevision, ActionReviseCurrent},
		{"decision, summary reports", StateAwaitingDecision, domain.IntentSummary, ActionSummary},
		{"decision, continue re-presents", StateAwaitingDecision, domain.IntentContinue, ActionPresentCurrent},
		{"decision, fetch replaces the queue", StateAwaitingDecision, domain.IntentFetch, ActionTriggerIngestion},
		{"decision, reset clears", StateAwaitingDecision, domain.IntentReset, ActionReset},
		{"decision, unclear asks again", StateAwaitingDecision, domain.IntentUnclear, ActionClarify},

		{"feedback, any text feeds the revision", StateAwaitingFeedback, domain.IntentRevision, ActionReviseCurrent},
		{"feedback, even an approval is treated as feedback", StateAwaitingFeedback, domain.IntentApproved, ActionReviseCurrent},
		{"feedback, summary is still honored", StateAwaitingFeedback, domain.IntentSummary, ActionSummary},
		{"feedback, reset is still honored", StateAwaitingFeedback, domain.IntentReset, ActionReset},
		{"feedback, fetch is still honored", StateAwaitingFeedback, domain.IntentFetch, ActionTriggerIngestion},

		{"completed, reset clears", StateAllCompleted, domain.IntentReset, ActionReset},
		{"completed, fetch starts over", StateAllCompleted, domain.IntentFetch, ActionTriggerIngestion},
		{"completed, approval is answered with completion", StateAllCompleted, domain.IntentApproved, ActionCompletion},
		{"completed, advice is answered", StateAllCompleted, domain.IntentAdvice, ActionAdvice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Transition(tc.state, tc.intent))
		})
	}
}

func TestFallbackIntent(t *testing.T) {
	cases := []struct {
		text string
		want domain.Intent
	}{
		{"approve", domain.IntentApproved},
		{"Yes, send it", domain.IntentApproved},
		{"looks good", domain.IntentApproved},
		{"please revise this", domain.IntentRevision},
		{"change the tone", domain.IntentRevision},
		{"add a 10% discount", domain.IntentRevision},
		{"what is the weather", domain.IntentUnclear},
		{"", domain.IntentUnclear},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, fallbackIntent(tc.text), "text=%q", tc.text)
	}
}

func TestFeedbackHasSubstance(t *testing.T) {
	assert.False(t, feedbackHasSubstance("revise"))
	assert.False(t, feedbackHasSubstance("  Revise it! "))
	assert.False(t, feedbackHasSubstance("no"))
	assert.False(t, feedbackHasSubstance(""))
	assert.True(t, feedbackHasSubstance("mention the new manager and apologize"))
	assert.True(t, feedbackHasSubstance("offer a discount voucher"))
}

// Guard against time-zero footguns in the resume recap.
func TestStateOfIgnoresActivityFields(t *testing.T) {
	s := &domain.Session{
		Items:        []*domain.ReviewItem{{Text: "x", Rating: 1}},
		Lifecycle:    domain.LifecycleInitialized,
		LastActivity: time.Time{},
	}
	assert.Equal(t, StateAwaitingDecision, StateOf(s))
}
