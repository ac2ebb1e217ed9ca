package llm

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

const intentSystemPrompt = `
You classify messages from a restaurant manager who is working through
AI-drafted responses to customer reviews over chat.

Classify the message into EXACTLY ONE of these categories:
- APPROVED: the message accepts the current draft (examples: "looks good", "approve", "yes", "good", "👍", "perfect", "send it")
- REVISION: the message asks for changes or gives feedback on the draft (examples: "add a discount", "change this", "offer something", "not good", "revise", "make it warmer")
- FETCH: the message asks to fetch or refresh reviews (examples: "get reviews", "fetch the latest reviews", "check for new reviews")
- CONTINUE: the message asks to resume or see the next review (examples: "continue", "next", "show me the review")
- SUMMARY: the message asks for progress (examples: "summary", "how far along are we", "show progress")
- RESET: the message asks to start over or clear the session (examples: "reset", "start over")
- ADVICE: the message asks a general restaurant-management question unrelated to the current draft
- UNCLEAR: anything ambiguous or unrelated (examples: "hmm", "maybe", "i don't know")

Return ONLY the category name, nothing else.
`

const revisionSystemPrompt = `
You are an experienced restaurant manager revising a drafted reply to a
customer review based on feedback from the owner.

Rules:
- Apply the feedback faithfully while keeping the reply personal and specific to the review.
- Keep the customer's name and any concrete details from the original review.
- Sound like a real person, not an AI.
- Keep the structure: greeting, 2-3 short paragraphs of substance, a forward-looking close, and a sign-off with "Restaurant Manager".
- Return ONLY the revised reply text.
`

const summarySystemPrompt = `
You summarize customer restaurant reviews for a busy manager. Produce a one
or two sentence synopsis that keeps the concrete complaints or compliments
(dishes, staff, waiting times) and the overall tone. Return only the
synopsis.
`

const draftSystemPrompt = `
You are an experienced restaurant manager crafting a personalized reply to
a customer review.

Rules:
- Address the customer by name and reference their specific feedback points, never generic boilerplate.
- Match the tone to the review's sentiment. For negative experiences show sincere concern, offer concrete steps or a resolution, and invite them back (a discount on the next visit is acceptable). For positive experiences express genuine appreciation for the specific compliments.
- Structure: personalized greeting, 2-3 paragraphs of substance, a forward-looking close, a sign-off ("Warm regards," or similar) and a "Restaurant Manager" signature.
- Sound like it was written by a real person.
- Return ONLY the reply text.
`

const advisorSystemPrompt = `
You are a seasoned restaurant-operations advisor chatting with a restaurant
manager. Give practical, concrete advice in a few short paragraphs. Answer
in the same language as the manager.
`

// BuildIntentPrompt renders the message plus just enough session context
// for the model to disambiguate ("yes" means approval only when a draft is
// on the table).
func BuildIntentPrompt(text string, sctx domain.SessionContext) string {
	var b strings.Builder
	b.WriteString("Session context:\n")
	switch {
	case !sctx.HasSession:
		b.WriteString("- no active review session\n")
	case sctx.Completed:
		b.WriteString("- all reviews in the session are done\n")
	default:
		fmt.Fprintf(&b, "- reviewing item %d of %d; a drafted response is awaiting the manager's decision\n", sctx.Position, sctx.Total)
	}
	fmt.Fprintf(&b, "\nManager message: %q\n", text)
	return b.String()
}

// BuildRevisionPrompt renders a revision request.
func BuildRevisionPrompt(req domain.RevisionRequest) string {
	var b strings.Builder
	b.WriteString("Original customer review:\n")
	b.WriteString(req.OriginalText)
	b.WriteString("\n\nCurrent drafted reply:\n")
	b.WriteString(req.CurrentResponse)
	b.WriteString("\n\nOwner feedback to apply:\n")
	b.WriteString(req.Feedback)
	return b.String()
}

// BuildDraftPrompt renders one review for response drafting.
func BuildDraftPrompt(item *domain.ReviewItem, restaurant string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Restaurant: %s\n", restaurant)
	fmt.Fprintf(&b, "Customer: %s\n", item.Author)
	fmt.Fprintf(&b, "Rating: %d/5 (%s)\n", item.Rating, item.Sentiment)
	if item.SummarizedText != "" {
		fmt.Fprintf(&b, "Key points: %s\n", item.SummarizedText)
	}
	fmt.Fprintf(&b, "\nReview:\n%s\n", item.Text)
	return b.String()
}

// ParseIntent maps raw model output to an intent. Unknown output degrades
// to UNCLEAR; the classifier never produces an intent outside the fixed
// set.
func ParseIntent(out string) domain.Intent {
	upper := strings.ToUpper(strings.TrimSpace(out))
	for _, intent := range []domain.Intent{
		domain.IntentApproved,
		domain.IntentRevision,
		domain.IntentFetch,
		domain.IntentContinue,
		domain.IntentSummary,
		domain.IntentReset,
		domain.IntentAdvice,
	} {
		if strings.Contains(upper, string(intent)) {
			return intent
		}
	}
	return domain.IntentUnclear
}
