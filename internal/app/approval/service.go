package approval

import (
	"context"
	"strings"
	"time"

	"github.com/PabloGalante/reviewsense-agent/internal/app/format"
	"github.com/PabloGalante/reviewsense-agent/internal/app/ingest"
	"github.com/PabloGalante/reviewsense-agent/internal/app/remind"
	"github.com/PabloGalante/reviewsense-agent/internal/config"
	"github.com/PabloGalante/reviewsense-agent/internal/domain"
	"github.com/PabloGalante/reviewsense-agent/internal/observability"
)

// Deps are the collaborators the approval service is wired with.
type Deps struct {
	Store         domain.SessionStore
	Conversations domain.ConversationStore
	Classifier    domain.IntentClassifier
	Reviser       domain.ResponseReviser
	Advisor       domain.Advisor
	Messenger     domain.Messenger
	Collector     domain.ReviewCollector
	Coordinator   *ingest.Coordinator
	Archive       domain.ReviewArchive
	Templates     config.Templates
	Reminder      remind.Policy

	Restaurant string
	NumReviews int
}

// Service drives the approval workflow: one call per inbound manager
// message. All session reads and writes for a given manager happen under a
// per-manager guard; blocking adapter calls release the guard and validate
// the session again before applying their results.
type Service struct {
	store         domain.SessionStore
	conversations domain.ConversationStore
	classifier    domain.IntentClassifier
	reviser       domain.ResponseReviser
	advisor       domain.Advisor
	messenger     domain.Messenger
	collector     domain.ReviewCollector
	coordinator   *ingest.Coordinator
	archive       domain.ReviewArchive
	templates     config.Templates
	reminder      remind.Policy

	restaurant string
	numReviews int

	guard *keyedGuard
	now   func() time.Time
	sleep func(time.Duration)
	// pace is the UX delay between a message and its follow-up button
	// template, so the buttons land after the text.
	pace time.Duration
	// background dispatches the detached ingestion task; tests replace it
	// to run inline.
	background func(func())
}

func NewService(d Deps) *Service {
	s := &Service{
		store:         d.Store,
		conversations: d.Conversations,
		classifier:    d.Classifier,
		reviser:       d.Reviser,
		advisor:       d.Advisor,
		messenger:     d.Messenger,
		collector:     d.Collector,
		coordinator:   d.Coordinator,
		archive:       d.Archive,
		templates:     d.Templates,
		reminder:      d.Reminder,
		restaurant:    d.Restaurant,
		numReviews:    d.NumReviews,
		guard:         newKeyedGuard(),
		now:           time.Now,
		sleep:         time.Sleep,
		pace:          2 * time.Second,
	}
	if s.numReviews <= 0 {
		s.numReviews = 15
	}
	s.background = func(fn func()) { go fn() }
	return s
}

// HandleMessage processes one inbound manager utterance end to end:
// classify, transition, perform the side effect, persist.
func (s *Service) HandleMessage(ctx context.Context, from domain.ManagerID, body string) error {
	log := observability.LoggerFromContext(ctx).With("manager_id", from)
	log.Info("handling inbound message")

	l := s.guard.acquire(from)
	defer l.unlock()

	now := s.now()
	prevActivity, _ := s.store.LastActivity(from)
	s.store.Touch(from, now)

	session, err := s.loadSession(from)
	if err != nil {
		return err
	}
	if session != nil {
		session.LastActivity = now
		if err := s.store.PutSession(session); err != nil {
			return err
		}
		// A manager returning to an unfinished queue after a long gap
		// gets a short recap before the turn is handled.
		if session.Lifecycle != domain.LifecycleCompleted && s.reminder.Due(prevActivity, now) {
			if err := s.messenger.SendText(ctx, from, format.ResumeNotice); err != nil {
				log.Warn("sending resume notice failed", "error", err)
			}
		}
	}

	state := StateOf(session)

	var intent domain.Intent
	if state == StateAwaitingFeedback {
		// The previous turn asked for revision text. Unless this message
		// is a workflow command, it IS the feedback and skips the model.
		if cmd, ok := workflowCommand(body); ok {
			intent = cmd
		} else {
			intent = domain.IntentRevision
		}
	} else {
		// Classification can block on the model; don't make a second
		// webhook for this manager wait on the network.
		sctx := s.sessionContext(from, session)
		l.unlock()
		intent = s.classify(ctx, body, sctx)
		l.relock()

		// Background ingestion may have swapped the session while the
		// guard was released.
		session, err = s.loadSession(from)
		if err != nil {
			return err
		}
		state = StateOf(session)
	}

	action := Transition(state, intent)
	log.Info("transition", "state", state, "intent", intent, "action", action)

	switch action {
	case ActionTriggerIngestion:
		return s.triggerIngestion(ctx, from)
	case ActionWelcome:
		return s.sendWelcome(ctx, from, body)
	case ActionPresentCurrent:
		return s.presentCurrent(ctx, session)
	case ActionApproveAdvance:
		return s.approveAndAdvance(ctx, session)
	case ActionReviseCurrent:
		return s.reviseCurrent(ctx, l, from, session, body, state)
	case ActionClarify:
		return s.messenger.SendText(ctx, from, format.ClarificationPrompt)
	case ActionSummary:
		return s.messenger.SendText(ctx, from, format.SummaryMessage(session.Summary()))
	case ActionCompletion:
		return s.sendCompletion(ctx, session)
	case ActionReset:
		return s.resetSession(ctx, from)
	case ActionAdvice:
		return s.handleAdvice(ctx, l, from, body)
	}
	return nil
}

func (s *Service) loadSession(from domain.ManagerID) (*domain.Session, error) {
	session, err := s.store.GetSession(from)
	if err != nil {
		if err == domain.ErrNoSession {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *Service) sessionContext(from domain.ManagerID, session *domain.Session) domain.SessionContext {
	sctx := domain.SessionContext{ManagerID: from}
	if session == nil {
		return sctx
	}
	sctx.HasSession = true
	sctx.Completed = session.Lifecycle == domain.LifecycleCompleted || session.Exhausted()
	sctx.Total = len(session.Items)
	if item, ok := session.Current(); ok {
		snapshot := *item
		sctx.CurrentItem = &snapshot
		sctx.Position = session.Cursor + 1
	}
	return sctx
}

func (s *Service) classify(ctx context.Context, body string, sctx domain.SessionContext) domain.Intent {
	intent, err := s.classifier.ClassifyIntent(ctx, body, sctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("intent classification failed, using keyword fallback", "error", err)
		return fallbackIntent(body)
	}
	return intent
}

// workflowCommand recognizes the handful of exact commands that are still
// honored while revision feedback is pending.
func workflowCommand(body string) (domain.Intent, bool) {
	switch strings.ToLower(strings.TrimSpace(body)) {
	case "summary", "show summary", "progress":
		return domain.IntentSummary, true
	case "reset", "start over":
		return domain.IntentReset, true
	case "fetch", "get reviews", "fetch reviews":
		return domain.IntentFetch, true
	}
	return "", false
}

// ─────────────────────────────────────────────
// Action executors
// ─────────────────────────────────────────────

func (s *Service) triggerIngestion(ctx context.Context, from domain.ManagerID) error {
	if err := s.messenger.SendText(ctx, from, format.FetchAck); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to send fetch ack", "error", err)
	}

	reqID := observability.RequestID(ctx)
	s.background(func() {
		// Detached from the webhook's request cycle.
		bctx := context.Background()
		if reqID != "" {
			bctx = observability.WithRequestID(bctx, reqID)
		}
		s.runIngestion(bctx, from)
	})
	return nil
}

func (s *Service) runIngestion(ctx context.Context, from domain.ManagerID) {
	log := observability.LoggerFromContext(ctx).With("manager_id", from)

	batch, err := s.collector.Collect(ctx, s.restaurant, s.numReviews)

	// The write is authoritative over any foreground action racing against
	// the old session, so it happens under the same per-manager guard.
	l := s.guard.acquire(from)
	defer l.unlock()

	if err == nil {
		var report *domain.IngestReport
		report, err = s.coordinator.Ingest(ctx, from, batch)
		if err == nil {
			s.announceIngest(ctx, from, report)
			return
		}
	}

	log.Error("ingestion failed", "error", err)
	if sendErr := s.messenger.SendText(ctx, from, "I encountered an error while fetching reviews: "+err.Error()); sendErr != nil {
		log.Error("failed to notify manager of ingestion failure", "error", sendErr)
	}
}

func (s *Service) announceIngest(ctx context.Context, from domain.ManagerID, report *domain.IngestReport) {
	if tpl := s.templates.SessionStart; tpl != "" {
		if err := s.messenger.SendTemplate(ctx, from, tpl, format.IngestVars(report)); err == nil {
			return
		}
		observability.LoggerFromContext(ctx).Warn("session-start template failed, falling back to text")
	}
	if err := s.messenger.SendText(ctx, from, format.IngestNotice(report)); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to announce ingested batch", "error", err)
	}
}

func (s *Service) sendWelcome(ctx context.Context, from domain.ManagerID, body string) error {
	delivered := false
	if tpl := s.templates.AdvisorWelcome; tpl != "" {
		if err := s.messenger.SendTemplate(ctx, from, tpl, map[string]string{}); err != nil {
			observability.LoggerFromContext(ctx).Warn("welcome template failed, falling back to text", "error", err)
		} else {
			delivered = true
		}
	}
	if !delivered {
		if err := s.messenger.SendText(ctx, from, format.WelcomeFallback); err != nil {
			return err
		}
	}

	if s.conversations != nil {
		_ = s.conversations.AppendExchange(from, domain.Exchange{
			Inbound:  body,
			Outbound: "sent welcome options",
			At:       s.now(),
		})
	}
	return nil
}

func (s *Service) presentCurrent(ctx context.Context, session *domain.Session) error {
	item, ok := session.Current()
	if !ok {
		return s.sendCompletion(ctx, session)
	}

	msg := format.ReviewMessage(item, session.Cursor+1, len(session.Items))
	if err := s.messenger.SendText(ctx, session.ManagerID, msg); err != nil {
		return err
	}
	s.sendActionButtons(ctx, session.ManagerID)
	return nil
}

func (s *Service) sendActionButtons(ctx context.Context, to domain.ManagerID) {
	tpl := s.templates.ReviewAction
	if tpl == "" {
		return
	}
	s.sleep(s.pace)
	if err := s.messenger.SendTemplate(ctx, to, tpl, map[string]string{}); err != nil {
		observability.LoggerFromContext(ctx).Warn("review-action template failed", "error", err)
	}
}

func (s *Service) approveAndAdvance(ctx context.Context, session *domain.Session) error {
	item, ok := session.Current()
	if !ok {
		return s.sendCompletion(ctx, session)
	}

	item.ApprovalStatus = domain.ApprovalApproved
	session.Cursor++
	if session.Exhausted() {
		session.Lifecycle = domain.LifecycleCompleted
	}
	if err := s.store.PutSession(session); err != nil {
		return err
	}

	if session.Lifecycle == domain.LifecycleCompleted {
		return s.sendCompletion(ctx, session)
	}
	return s.presentCurrent(ctx, session)
}

func (s *Service) sendCompletion(ctx context.Context, session *domain.Session) error {
	counts := session.Summary()
	if err := s.messenger.SendText(ctx, session.ManagerID, format.CompletionMessage(counts)); err != nil {
		return err
	}
	if tpl := s.templates.SessionEnd; tpl != "" {
		s.sleep(s.pace)
		if err := s.messenger.SendTemplate(ctx, session.ManagerID, tpl, map[string]string{}); err != nil {
			observability.LoggerFromContext(ctx).Warn("session-end template failed", "error", err)
		}
	}
	return nil
}

func (s *Service) reviseCurrent(ctx context.Context, l *lease, from domain.ManagerID, session *domain.Session, body string, state State) error {
	log := observability.LoggerFromContext(ctx).With("manager_id", from)

	item, ok := session.Current()
	if !ok {
		return s.sendCompletion(ctx, session)
	}

	// A bare "revise" carries nothing for the pipeline to work with; ask
	// for the actual feedback first.
	if state == StateAwaitingDecision && !feedbackHasSubstance(body) {
		session.AwaitingFeedback = true
		if err := s.store.PutSession(session); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, from, format.FeedbackPrompt)
	}

	feedback := body
	item.ApprovalStatus = domain.ApprovalNeedsRevision
	item.ManagerFeedback = feedback
	session.AwaitingFeedback = false
	if err := s.store.PutSession(session); err != nil {
		return err
	}

	req := domain.RevisionRequest{
		OriginalText:    item.Text,
		CurrentResponse: item.Response,
		Feedback:        feedback,
	}
	epoch, cursor := session.Epoch, session.Cursor

	// The model call can take seconds; release the guard while it runs and
	// validate the session again before applying the result.
	l.unlock()
	revised, revErr := s.reviser.ReviseResponse(ctx, req)
	l.relock()

	current, err := s.loadSession(from)
	if err != nil {
		return err
	}
	if current == nil || current.Epoch != epoch || current.Cursor != cursor {
		log.Info("discarding stale revision result", "epoch", epoch, "cursor", cursor)
		return nil
	}
	cur, ok := current.Current()
	if !ok {
		return nil
	}

	if revErr != nil {
		// The previous response stays intact; the item remains
		// needs_revision.
		log.Error("revision pipeline failed", "error", revErr)
		return s.messenger.SendText(ctx, from, "I couldn't revise that response just now. The previous draft is unchanged. Please try again.")
	}

	cur.Response = revised
	if err := s.store.PutSession(current); err != nil {
		return err
	}

	if s.archive != nil {
		prefix := cur.Text
		if len(prefix) > 48 {
			prefix = prefix[:48]
		}
		if err := s.archive.UpdateResponse(ctx, current.Restaurant, cur.Author, prefix, revised); err != nil {
			log.Warn("archiving revised response failed", "error", err)
		}
	}

	if err := s.messenger.SendText(ctx, from, format.RevisedMessage(cur)); err != nil {
		return err
	}
	s.sendActionButtons(ctx, from)
	return nil
}

func (s *Service) resetSession(ctx context.Context, from domain.ManagerID) error {
	if err := s.store.ClearSession(from); err != nil {
		return err
	}
	return s.messenger.SendText(ctx, from, `Your review session has been cleared. Say "get reviews" whenever you want a fresh batch.`)
}

func (s *Service) handleAdvice(ctx context.Context, l *lease, from domain.ManagerID, body string) error {
	if s.advisor == nil {
		return s.sendWelcome(ctx, from, body)
	}

	l.unlock()
	answer, err := s.advisor.Advise(ctx, body)
	l.relock()

	if err != nil {
		observability.LoggerFromContext(ctx).Error("advisor failed", "error", err)
		return s.messenger.SendText(ctx, from, "I couldn't reach the advisor just now. Please try again in a moment.")
	}

	if err := s.messenger.SendText(ctx, from, answer); err != nil {
		return err
	}
	if s.conversations != nil {
		_ = s.conversations.AppendExchange(from, domain.Exchange{
			Inbound:  body,
			Outbound: answer,
			At:       s.now(),
		})
	}
	return nil
}
