package domain

import "time"

// ManagerID is the channel-specific address of a restaurant manager,
// e.g. "whatsapp:+15551234567". It is treated as an opaque string.
type ManagerID string

type MessageID string

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// SentimentForRating derives the sentiment bucket from the star rating.
// Computed once at ingestion, never re-derived.
func SentimentForRating(rating int) Sentiment {
	switch {
	case rating <= 2:
		return SentimentNegative
	case rating == 3:
		return SentimentNeutral
	default:
		return SentimentPositive
	}
}

// Lifecycle is the coarse phase of a review session. The "uninitialized"
// phase is implicit: it is the absence of a Session from the store.
type Lifecycle string

const (
	LifecycleInitialized Lifecycle = "initialized"
	LifecycleCompleted   Lifecycle = "completed"
)

type ApprovalStatus string

const (
	ApprovalPending       ApprovalStatus = "pending"
	ApprovalApproved      ApprovalStatus = "approved"
	ApprovalNeedsRevision ApprovalStatus = "needs_revision"
)

// Intent is the normalized category the classifier derives from free text.
type Intent string

const (
	IntentApproved Intent = "APPROVED"
	IntentRevision Intent = "REVISION"
	IntentUnclear  Intent = "UNCLEAR"
	IntentFetch    Intent = "FETCH"
	IntentContinue Intent = "CONTINUE"
	IntentSummary  Intent = "SUMMARY"
	IntentReset    Intent = "RESET"
	IntentAdvice   Intent = "ADVICE"
)

type Timestamp = time.Time
