package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned by SessionStore.GetSession when the manager has
// no active review session. Callers treat it as the implicit NO_SESSION
// state, not as a failure.
var ErrNoSession = errors.New("no active review session")

// SessionStore defines review-session persistence. Implementations must be
// safe for concurrent use across different manager identities; transitions
// for one manager are serialized by the approval service's per-key guard.
type SessionStore interface {
	GetSession(managerID ManagerID) (*Session, error)
	PutSession(session *Session) error
	// ClearSession removes the queue, cursor and lifecycle but preserves
	// last-activity tracking.
	ClearSession(managerID ManagerID) error
	// Touch records inbound activity for the idle-reminder policy, even
	// when no session exists.
	Touch(managerID ManagerID, at time.Time)
	LastActivity(managerID ManagerID) (time.Time, bool)
}

// ConversationStore keeps the long-lived per-manager conversation log that
// survives session resets.
type ConversationStore interface {
	AppendExchange(managerID ManagerID, ex Exchange) error
	RecentExchanges(managerID ManagerID, limit int) ([]Exchange, error)
}

// SessionContext gives the intent classifier a read-only snapshot of where
// the manager is in the workflow.
type SessionContext struct {
	ManagerID   ManagerID
	HasSession  bool
	Completed   bool
	CurrentItem *ReviewItem
	Position    int // 1-based
	Total       int
}

// IntentClassifier turns free text into one of the fixed intents. Errors
// are recovered locally by a keyword fallback; a classifier failure never
// reaches the manager.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, text string, sctx SessionContext) (Intent, error)
}

// RevisionRequest carries everything the revision pipeline needs to rewrite
// a proposed reply.
type RevisionRequest struct {
	OriginalText    string
	CurrentResponse string
	Feedback        string
}

// ResponseReviser rewrites a proposed reply according to manager feedback.
type ResponseReviser interface {
	ReviseResponse(ctx context.Context, req RevisionRequest) (string, error)
}

// ReviewAnalyst produces the derived text fields during analysis.
type ReviewAnalyst interface {
	SummarizeReview(ctx context.Context, text string) (string, error)
	DraftResponse(ctx context.Context, item *ReviewItem, restaurant string) (string, error)
}

// Advisor answers free-form management questions outside the approval flow.
type Advisor interface {
	Advise(ctx context.Context, question string) (string, error)
}

// Messenger delivers outbound messages to a manager. Chunking of long text
// and template button payloads are its concern, not the core's.
type Messenger interface {
	SendText(ctx context.Context, to ManagerID, text string) error
	SendTemplate(ctx context.Context, to ManagerID, templateID string, vars map[string]string) error
}

// ReviewSource fetches raw reviews for a restaurant from the maps site.
type ReviewSource interface {
	FetchReviews(ctx context.Context, restaurant string, limit int) ([]RawReview, error)
}

// ReviewCollector runs the full fetch-and-analyze pipeline, producing a
// batch ready for ingestion. It performs no session mutation itself.
type ReviewCollector interface {
	Collect(ctx context.Context, restaurant string, limit int) (*AnalysisBatch, error)
}

// ReviewArchive persists analyzed batches and accepted revisions to the
// document store, keyed by restaurant.
type ReviewArchive interface {
	SaveBatch(ctx context.Context, restaurant string, items []*ReviewItem) error
	UpdateResponse(ctx context.Context, restaurant, author, textPrefix, response string) error
}
