// Package approval implements the review-approval session workflow: the
// per-manager state machine that maps classified intents to transitions and
// outbound actions, and the service that executes them against the session
// store.
package approval

import (
	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// State is the conversational position of one manager.
type State string

const (
	// StateNoSession means this manager has no session in the store.
	StateNoSession State = "NO_SESSION"
	// StateAwaitingDecision means the cursor points at a pending item and
	// the manager owes an approve-or-revise call.
	StateAwaitingDecision State = "AWAITING_DECISION"
	// StateAwaitingFeedback means the previous turn asked for free-text
	// revision input.
	StateAwaitingFeedback State = "AWAITING_FEEDBACK"
	// StateAllCompleted means the cursor has passed the last item.
	StateAllCompleted State = "ALL_COMPLETED"
)

// StateOf derives the machine state from the stored session. A nil session
// is the implicit NO_SESSION state.
func StateOf(s *domain.Session) State {
	switch {
	case s == nil:
		return StateNoSession
	case s.AwaitingFeedback:
		return StateAwaitingFeedback
	case s.Lifecycle == domain.LifecycleCompleted || s.Exhausted():
		return StateAllCompleted
	default:
		return StateAwaitingDecision
	}
}

// Action is the side effect a transition asks the service to perform.
type Action string

const (
	// ActionTriggerIngestion acknowledges the manager and starts the
	// background fetch/analyze pipeline.
	ActionTriggerIngestion Action = "trigger_ingestion"
	// ActionWelcome greets a manager who has no session and did not ask
	// for one; the welcome offers the fetch trigger.
	ActionWelcome Action = "welcome"
	// ActionPresentCurrent re-sends the item at the cursor.
	ActionPresentCurrent Action = "present_current"
	// ActionApproveAdvance marks the current item approved, advances the
	// cursor, and presents the next item or the completion summary.
	ActionApproveAdvance Action = "approve_advance"
	// ActionReviseCurrent runs the revision pipeline on the current item
	// using the inbound text as feedback.
	ActionReviseCurrent Action = "revise_current"
	// ActionClarify re-prompts without mutating anything.
	ActionClarify Action = "clarify"
	// ActionSummary emits progress counts; state is unchanged.
	ActionSummary Action = "summary"
	// ActionCompletion emits the completion summary and offers the reset
	// trigger.
	ActionCompletion Action = "completion"
	// ActionReset clears the session, preserving the conversation log and
	// last-activity tracking.
	ActionReset Action = "reset"
	// ActionAdvice answers a management question outside the approval
	// flow.
	ActionAdvice Action = "advice"
)

// Transition maps every reachable state+intent pair to an action. It is
// total: there is no input for which the workflow fails to respond.
func Transition(state State, intent domain.Intent) Action {
	switch state {
	case StateNoSession:
		switch intent {
		case domain.IntentFetch:
			return ActionTriggerIngestion
		case domain.IntentAdvice:
			return ActionAdvice
		default:
			// No queue to summarize, approve or reset; the welcome offers
			// the fetch trigger instead.
			return ActionWelcome
		}

	case StateAwaitingDecision:
		switch intent {
		case domain.IntentApproved:
			return ActionApproveAdvance
		case domain.IntentRevision:
			return ActionReviseCurrent
		case domain.IntentSummary:
			return ActionSummary
		case domain.IntentContinue:
			return ActionPresentCurrent
		case domain.IntentFetch:
			// A fresh batch supersedes the current queue.
			return ActionTriggerIngestion
		case domain.IntentReset:
			return ActionReset
		case domain.IntentAdvice:
			return ActionAdvice
		default:
			return ActionClarify
		}

	case StateAwaitingFeedback:
		// The manager owes us revision text. Workflow-control intents are
		// still honored; anything else is consumed as the feedback itself.
		switch intent {
		case domain.IntentSummary:
			return ActionSummary
		case domain.IntentReset:
			return ActionReset
		case domain.IntentFetch:
			return ActionTriggerIngestion
		default:
			return ActionReviseCurrent
		}

	case StateAllCompleted:
		switch intent {
		case domain.IntentReset:
			return ActionReset
		case domain.IntentFetch:
			return ActionTriggerIngestion
		case domain.IntentAdvice:
			return ActionAdvice
		default:
			return ActionCompletion
		}
	}

	// Unknown states cannot arise from StateOf; answer with a clarification
	// rather than failing.
	return ActionClarify
}
