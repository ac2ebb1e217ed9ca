// Package format renders review items and session progress into
// manager-facing text. Everything here is pure: nothing is sent, nothing is
// mutated.
package format

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

const (
	// ClarificationPrompt is sent when the manager's message could not be
	// mapped to an intent.
	ClarificationPrompt = `I didn't quite catch that. Reply "approve" to accept the suggested response, or tell me what to change.`

	// WelcomeFallback is the plain-text greeting used when no welcome
	// template is configured or template delivery fails.
	WelcomeFallback = `I'm here to help with your review management. You can say "get reviews" to fetch new reviews, "continue" to review responses, or "summary" to see your progress.`

	// FetchAck is sent immediately after a fetch is triggered, before the
	// background pipeline completes.
	FetchAck = "I'm fetching the latest reviews for your restaurant. This may take a minute or two..."

	// FeedbackPrompt asks the manager what should change about the
	// current draft.
	FeedbackPrompt = "What would you like me to change about this response?"

	// ResumeNotice greets a manager who comes back to a pending session
	// after a long idle gap.
	ResumeNotice = "Welcome back! You still have reviews waiting for approval. Here's where we left off:"
)

// Stars renders a rating as that many star glyphs.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	return strings.Repeat("⭐", rating)
}

// ReviewMessage renders one review for approval: author, stars, the quoted
// original text and the proposed response. Position is 1-based.
func ReviewMessage(item *domain.ReviewItem, position, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Review %d of %d*\n\n", position, total)
	fmt.Fprintf(&b, "*From:* %s\n", item.Author)
	fmt.Fprintf(&b, "*Rating:* %s\n", Stars(item.Rating))
	if item.Time != "" {
		fmt.Fprintf(&b, "*When:* %s\n", item.Time)
	}
	fmt.Fprintf(&b, "\n*Original Review:*\n%q\n", item.Text)
	fmt.Fprintf(&b, "\n*Suggested Response:*\n%s", item.Response)
	return b.String()
}

// RevisedMessage renders a freshly revised response for re-approval.
func RevisedMessage(item *domain.ReviewItem) string {
	return fmt.Sprintf("I've revised the response based on your feedback:\n\n*Revised Response:*\n%s", item.Response)
}

// SummaryMessage renders the mid-session progress summary.
func SummaryMessage(c domain.SummaryCounts) string {
	var b strings.Builder
	b.WriteString("*Review Progress Summary*\n\n")
	fmt.Fprintf(&b, "Total Reviews: %d\n", c.Total)
	fmt.Fprintf(&b, "Approved: %d\n", c.Approved)
	fmt.Fprintf(&b, "Pending: %d\n", c.Pending)
	fmt.Fprintf(&b, "Needs Revision: %d\n", c.NeedsRevision)
	if !c.Completed && c.Total > 0 {
		fmt.Fprintf(&b, "Current Review: %d of %d\n", c.CurrentIndex+1, c.Total)
	}
	b.WriteString("\nType \"continue\" to resume reviewing")
	return b.String()
}

// CompletionMessage renders the end-of-queue summary.
func CompletionMessage(c domain.SummaryCounts) string {
	var b strings.Builder
	b.WriteString("*All reviews have been processed!*\n\n")
	b.WriteString("*Summary:*\n")
	fmt.Fprintf(&b, "Total Reviews: %d\n", c.Total)
	fmt.Fprintf(&b, "Approved: %d\n", c.Approved)
	b.WriteString("\nThank you for reviewing these responses. The approved responses will be sent to customers.")
	return b.String()
}

// IngestNotice renders the session-start notice as plain text, for when no
// session-start template is configured.
func IngestNotice(r *domain.IngestReport) string {
	if r.Pending == 0 {
		return fmt.Sprintf("I analyzed %d reviews for %s. All of them are rated well, so nothing needs a response right now.", r.Total, r.RestaurantName)
	}
	return fmt.Sprintf("I analyzed %d reviews for %s. %d are already good; %d need your attention. Say \"continue\" to start reviewing.", r.Total, r.RestaurantName, r.Excluded, r.Pending)
}

// IngestVars builds the template variables for the session-start template:
// total, already-good count, pending count.
func IngestVars(r *domain.IngestReport) map[string]string {
	return map[string]string{
		"1": fmt.Sprintf("%d", r.Total),
		"2": fmt.Sprintf("%d", r.Excluded),
		"3": fmt.Sprintf("%d", r.Pending),
	}
}
