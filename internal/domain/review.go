package domain

// ReviewItem is one customer review plus the fields derived for it by the
// analysis pipeline. Rating, Text, Author and Time are immutable after
// ingestion; Response, ApprovalStatus and ManagerFeedback change as the
// manager works through the approval queue.
type ReviewItem struct {
	Rating         int
	Text           string
	Author         string
	Time           string // human-readable recency, e.g. "March-2024"
	Sentiment      Sentiment
	SummarizedText string // optional, filled in by the summarization step

	Response        string
	ApprovalStatus  ApprovalStatus
	ManagerFeedback string
}

// Session is the per-manager workflow state: the ordered review queue, the
// cursor into it, and the lifecycle flag. The Session Store exclusively owns
// this data; adapters only ever see read-only snapshots.
type Session struct {
	ManagerID  ManagerID
	Restaurant string
	Items      []*ReviewItem
	Cursor     int
	Lifecycle  Lifecycle

	// Epoch increments on every ingestion. In-flight adapter results are
	// validated against it before being applied, so a late revision cannot
	// corrupt a session that a fresh batch has superseded.
	Epoch int64

	// AwaitingFeedback marks that the previous turn asked the manager for
	// free-text revision input; the next inbound message is consumed as
	// that feedback rather than being classified.
	AwaitingFeedback bool

	LastActivity Timestamp
	CreatedAt    Timestamp
}

// Current returns the item the cursor points at, if any.
func (s *Session) Current() (*ReviewItem, bool) {
	if s == nil || s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return nil, false
	}
	return s.Items[s.Cursor], true
}

// Exhausted reports whether the cursor has moved past the last item. The
// boundary is >= rather than == so a cursor that overshoots under
// concurrent mutation still reads as done.
func (s *Session) Exhausted() bool {
	return s == nil || s.Cursor >= len(s.Items)
}

// SummaryCounts are the progress numbers shown to the manager.
type SummaryCounts struct {
	Total         int
	Approved      int
	Pending       int
	NeedsRevision int
	CurrentIndex  int // zero-based cursor; presentation layers render 1-based
	Completed     bool
}

// Summary counts items by approval status. Two calls without an intervening
// approval or revision yield identical counts.
func (s *Session) Summary() SummaryCounts {
	c := SummaryCounts{}
	if s == nil {
		return c
	}
	c.Total = len(s.Items)
	c.CurrentIndex = s.Cursor
	c.Completed = s.Lifecycle == LifecycleCompleted || s.Exhausted()
	for _, item := range s.Items {
		switch item.ApprovalStatus {
		case ApprovalApproved:
			c.Approved++
		case ApprovalNeedsRevision:
			c.NeedsRevision++
		default:
			c.Pending++
		}
	}
	return c
}

// BatchStatus is the upstream fetch/analyze pipeline's verdict on a batch.
type BatchStatus string

const (
	BatchSuccess BatchStatus = "success"
	BatchError   BatchStatus = "error"
)

// AnalysisBatch is the bulk output of the fetch/analyze pipeline, the input
// to ingestion.
type AnalysisBatch struct {
	Status          BatchStatus
	Message         string // error detail when Status == BatchError
	RestaurantName  string
	TotalAnalyzed   int
	AnalyzedReviews []*ReviewItem
}

// RawReview is a review as scraped from the maps site, before analysis.
// Time still holds the source's relative form ("3 weeks ago"). A Rating of
// zero means extraction failed and the review is dropped upstream.
type RawReview struct {
	Author string
	Rating int
	Time   string
	Text   string
}

// IngestReport summarizes what an ingestion did, for the session-start
// notice sent to the manager.
type IngestReport struct {
	RestaurantName string
	Total          int // reviews analyzed, before the rating split
	Excluded       int // high-rated reviews left out of the queue
	Pending        int // reviews queued for approval
	Completed      bool
}

// Exchange is one inbound/outbound pair in the long-lived conversation log.
// The log survives session resets.
type Exchange struct {
	Inbound  string
	Outbound string
	At       Timestamp
}
