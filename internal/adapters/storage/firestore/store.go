package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// Store persists review sessions and the per-restaurant review archive in
// Firestore. One store, implements both interfaces.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project
// (REVIEWSENSE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("review_sessions")
}

func (s *Store) sessionDocRef(id domain.ManagerID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) managersCol() *firestore.CollectionRef {
	return s.client.Collection("managers")
}

func (s *Store) reviewsCol(restaurant string) *firestore.CollectionRef {
	return s.client.Collection("restaurants").Doc(restaurant).Collection("reviews")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type reviewItemDoc struct {
	Rating          int    `firestore:"rating"`
	Text            string `firestore:"text"`
	Author          string `firestore:"author"`
	Time            string `firestore:"time"`
	Sentiment       string `firestore:"sentiment"`
	SummarizedText  string `firestore:"summarized_text"`
	Response        string `firestore:"response"`
	ApprovalStatus  string `firestore:"approval_status"`
	ManagerFeedback string `firestore:"manager_feedback"`
}

type sessionDoc struct {
	Restaurant       string          `firestore:"restaurant"`
	Items            []reviewItemDoc `firestore:"items"`
	Cursor           int             `firestore:"cursor"`
	Lifecycle        string          `firestore:"lifecycle"`
	Epoch            int64           `firestore:"epoch"`
	AwaitingFeedback bool            `firestore:"awaiting_feedback"`
	LastActivity     time.Time       `firestore:"last_activity"`
	CreatedAt        time.Time       `firestore:"created_at"`
}

type managerDoc struct {
	LastActivity time.Time `firestore:"last_activity"`
}

func toItemDoc(item *domain.ReviewItem) reviewItemDoc {
	return reviewItemDoc{
		Rating:          item.Rating,
		Text:            item.Text,
		Author:          item.Author,
		Time:            item.Time,
		Sentiment:       string(item.Sentiment),
		SummarizedText:  item.SummarizedText,
		Response:        item.Response,
		ApprovalStatus:  string(item.ApprovalStatus),
		ManagerFeedback: item.ManagerFeedback,
	}
}

func fromItemDoc(doc reviewItemDoc) *domain.ReviewItem {
	return &domain.ReviewItem{
		Rating:          doc.Rating,
		Text:            doc.Text,
		Author:          doc.Author,
		Time:            doc.Time,
		Sentiment:       domain.Sentiment(doc.Sentiment),
		SummarizedText:  doc.SummarizedText,
		Response:        doc.Response,
		ApprovalStatus:  domain.ApprovalStatus(doc.ApprovalStatus),
		ManagerFeedback: doc.ManagerFeedback,
	}
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) GetSession(managerID domain.ManagerID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.sessionDocRef(managerID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	items := make([]*domain.ReviewItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, fromItemDoc(it))
	}

	return &domain.Session{
		ManagerID:        managerID,
		Restaurant:       doc.Restaurant,
		Items:            items,
		Cursor:           doc.Cursor,
		Lifecycle:        domain.Lifecycle(doc.Lifecycle),
		Epoch:            doc.Epoch,
		AwaitingFeedback: doc.AwaitingFeedback,
		LastActivity:     doc.LastActivity,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

func (s *Store) PutSession(session *domain.Session) error {
	ctx := context.Background()

	items := make([]reviewItemDoc, 0, len(session.Items))
	for _, item := range session.Items {
		items = append(items, toItemDoc(item))
	}

	doc := sessionDoc{
		Restaurant:       session.Restaurant,
		Items:            items,
		Cursor:           session.Cursor,
		Lifecycle:        string(session.Lifecycle),
		Epoch:            session.Epoch,
		AwaitingFeedback: session.AwaitingFeedback,
		LastActivity:     session.LastActivity,
		CreatedAt:        session.CreatedAt,
	}

	if _, err := s.sessionDocRef(session.ManagerID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore PutSession: %w", err)
	}

	if !session.LastActivity.IsZero() {
		s.Touch(session.ManagerID, session.LastActivity)
	}
	return nil
}

// ClearSession deletes the session document. The manager's activity doc is
// kept for the idle-reminder policy.
func (s *Store) ClearSession(managerID domain.ManagerID) error {
	ctx := context.Background()

	if _, err := s.sessionDocRef(managerID).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore ClearSession: %w", err)
	}
	return nil
}

func (s *Store) Touch(managerID domain.ManagerID, at time.Time) {
	ctx := context.Background()

	_, err := s.managersCol().Doc(string(managerID)).Set(ctx, managerDoc{LastActivity: at})
	if err != nil {
		// Activity tracking is best-effort; reminders degrade, sessions
		// do not.
		return
	}
}

func (s *Store) LastActivity(managerID domain.ManagerID) (time.Time, bool) {
	ctx := context.Background()

	snap, err := s.managersCol().Doc(string(managerID)).Get(ctx)
	if err != nil {
		return time.Time{}, false
	}

	var doc managerDoc
	if err := snap.DataTo(&doc); err != nil {
		return time.Time{}, false
	}
	return doc.LastActivity, !doc.LastActivity.IsZero()
}

// ─────────────────────────────────────────
// ReviewArchive implementation
// ─────────────────────────────────────────

func (s *Store) SaveBatch(ctx context.Context, restaurant string, items []*domain.ReviewItem) error {
	col := s.reviewsCol(restaurant)
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, _, err := col.Add(ctx, toItemDoc(item)); err != nil {
			return fmt.Errorf("firestore SaveBatch: %w", err)
		}
	}
	return nil
}

// UpdateResponse rewrites the stored response for the archived review
// matching author and text prefix. Firestore has no prefix queries, so the
// author match narrows the candidates and the prefix is checked here.
func (s *Store) UpdateResponse(ctx context.Context, restaurant, author, textPrefix, response string) error {
	iter := s.reviewsCol(restaurant).Where("author", "==", author).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return fmt.Errorf("firestore UpdateResponse: %w", err)
		}

		var doc reviewItemDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode reviewItemDoc: %w", err)
		}
		if len(doc.Text) < len(textPrefix) || doc.Text[:len(textPrefix)] != textPrefix {
			continue
		}

		if _, err := snap.Ref.Set(ctx, map[string]interface{}{
			"response": response,
		}, firestore.MergeAll); err != nil {
			return fmt.Errorf("firestore UpdateResponse set: %w", err)
		}
	}
	return nil
}
