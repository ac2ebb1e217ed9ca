package approval

import (
	"strings"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// Keyword fallback for when the intent classifier errors out. The state
// machine must always produce a transition, so ambiguous text degrades to
// UNCLEAR rather than surfacing the classifier failure.

var approveTokens = []string{"approve", "good", "yes", "ok", "send", "perfect"}

var reviseTokens = []string{"revise", "change", "edit", "discount", "offer", "fix"}

func fallbackIntent(text string) domain.Intent {
	lower := strings.ToLower(text)
	for _, tok := range approveTokens {
		if strings.Contains(lower, tok) {
			return domain.IntentApproved
		}
	}
	for _, tok := range reviseTokens {
		if strings.Contains(lower, tok) {
			return domain.IntentRevision
		}
	}
	return domain.IntentUnclear
}

// bareRevisionRequests are messages that ask for a revision without saying
// what to change, typically the quick-reply button payload. They put the
// session into the feedback-gathering state instead of invoking the
// revision pipeline with nothing to go on.
var bareRevisionRequests = map[string]bool{
	"revise":         true,
	"revise it":      true,
	"revise this":    true,
	"change":         true,
	"change it":      true,
	"change this":    true,
	"edit":           true,
	"edit it":        true,
	"fix":            true,
	"fix it":         true,
	"no":             true,
	"not good":       true,
	"needs revision": true,
	"needs work":     true,
}

func feedbackHasSubstance(text string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	norm = strings.Trim(norm, ".!?,")
	return norm != "" && !bareRevisionRequests[norm]
}
