package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/reviewsense-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

const manager = domain.ManagerID("whatsapp:+15550002222")

func analyzedItem(author string, rating int, status domain.ApprovalStatus) *domain.ReviewItem {
	return &domain.ReviewItem{
		Author:         author,
		Rating:         rating,
		Text:           "the food was " + author + "'s kind of thing",
		Sentiment:      domain.SentimentForRating(rating),
		Response:       "Dear " + author + ", thank you.",
		ApprovalStatus: status,
	}
}

func successBatch(items ...*domain.ReviewItem) *domain.AnalysisBatch {
	return &domain.AnalysisBatch{
		Status:          domain.BatchSuccess,
		RestaurantName:  "kfc",
		TotalAnalyzed:   len(items),
		AnalyzedReviews: items,
	}
}

func TestIngestSplitsByRating(t *testing.T) {
	store := memory.NewSessionStore()
	archive := memory.NewReviewArchive()
	coord := NewCoordinator(store, archive, 3)

	batch := successBatch(
		analyzedItem("Lena", 5, domain.ApprovalPending),
		analyzedItem("Tom", 2, domain.ApprovalPending),
		analyzedItem("James", 4, domain.ApprovalPending),
	)

	report, err := coord.Ingest(context.Background(), manager, batch)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Excluded)
	assert.Equal(t, 1, report.Pending)
	assert.False(t, report.Completed)

	session, err := store.GetSession(manager)
	require.NoError(t, err)
	require.Len(t, session.Items, 1)
	assert.Equal(t, "Tom", session.Items[0].Author)
	assert.Equal(t, 0, session.Cursor)
	assert.Equal(t, int64(1), session.Epoch)
	assert.Equal(t, domain.LifecycleInitialized, session.Lifecycle)

	// The full batch, including the excluded reviews, reaches the archive.
	assert.Len(t, archive.Reviews("kfc"), 3)
}

func TestIngestBoundaryRatingIsQueued(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 3)

	report, err := coord.Ingest(context.Background(), manager, successBatch(
		analyzedItem("Priya", 3, domain.ApprovalPending),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pending)
}

func TestIngestEmptyQueueIsBornCompleted(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 3)

	report, err := coord.Ingest(context.Background(), manager, successBatch(
		analyzedItem("Lena", 5, domain.ApprovalPending),
		analyzedItem("Sofia", 4, domain.ApprovalPending),
	))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Pending)
	assert.True(t, report.Completed)

	session, err := store.GetSession(manager)
	require.NoError(t, err)
	assert.Empty(t, session.Items)
	assert.Equal(t, domain.LifecycleCompleted, session.Lifecycle)
}

func TestIngestForcesPendingStatus(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 3)

	stale := analyzedItem("Tom", 2, domain.ApprovalApproved)
	stale.ManagerFeedback = "left over from an earlier run"

	_, err := coord.Ingest(context.Background(), manager, successBatch(stale))
	require.NoError(t, err)

	session, err := store.GetSession(manager)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, session.Items[0].ApprovalStatus)
	assert.Empty(t, session.Items[0].ManagerFeedback)
}

func TestIngestErrorBatchLeavesSessionUntouched(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 3)

	existing := &domain.Session{
		ManagerID: manager,
		Items:     []*domain.ReviewItem{analyzedItem("Maria", 1, domain.ApprovalPending)},
		Lifecycle: domain.LifecycleInitialized,
		Epoch:     7,
	}
	require.NoError(t, store.PutSession(existing))

	_, err := coord.Ingest(context.Background(), manager, &domain.AnalysisBatch{
		Status:  domain.BatchError,
		Message: "browser crashed",
	})

	var ingErr *IngestionError
	require.ErrorAs(t, err, &ingErr)
	assert.Contains(t, ingErr.Error(), "browser crashed")

	session, getErr := store.GetSession(manager)
	require.NoError(t, getErr)
	assert.Equal(t, int64(7), session.Epoch)
	require.Len(t, session.Items, 1)
	assert.Equal(t, "Maria", session.Items[0].Author)
}

func TestIngestNilBatchIsRejected(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 3)

	_, err := coord.Ingest(context.Background(), manager, nil)

	var ingErr *IngestionError
	require.ErrorAs(t, err, &ingErr)
}

func TestIngestBumpsEpochOverReplacedSession(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 3)

	_, err := coord.Ingest(context.Background(), manager, successBatch(
		analyzedItem("Tom", 2, domain.ApprovalPending),
	))
	require.NoError(t, err)

	_, err = coord.Ingest(context.Background(), manager, successBatch(
		analyzedItem("Derek", 1, domain.ApprovalPending),
	))
	require.NoError(t, err)

	session, err := store.GetSession(manager)
	require.NoError(t, err)
	assert.Equal(t, int64(2), session.Epoch)
	assert.Equal(t, "Derek", session.Items[0].Author)
}

func TestNonPositiveThresholdDefaults(t *testing.T) {
	coord := NewCoordinator(memory.NewSessionStore(), nil, 0)
	assert.Equal(t, 3, coord.Threshold())
}

func TestConfiguredThresholdWidensQueue(t *testing.T) {
	store := memory.NewSessionStore()
	coord := NewCoordinator(store, nil, 4)

	report, err := coord.Ingest(context.Background(), manager, successBatch(
		analyzedItem("Lena", 5, domain.ApprovalPending),
		analyzedItem("James", 4, domain.ApprovalPending),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pending)
	assert.Equal(t, 1, report.Excluded)
}
