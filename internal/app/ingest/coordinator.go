// Package ingest bridges the fetch/analyze pipeline into the session
// store: it collects and analyzes raw reviews, applies the low/high-rating
// split, and initializes the per-item approval lifecycle.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
	"github.com/PabloGalante/reviewsense-agent/internal/observability"
)

// IngestionError is a manager-visible ingestion failure: the upstream batch
// reported an error or had a malformed shape. No session state was touched.
type IngestionError struct {
	Reason string
}

func (e *IngestionError) Error() string {
	return "ingestion failed: " + e.Reason
}

// Coordinator applies analyzed batches to the session store. Reviews rated
// at or below the threshold become the approval queue; the rest are counted
// as already good and excluded.
type Coordinator struct {
	store     domain.SessionStore
	archive   domain.ReviewArchive
	threshold int
	now       func() time.Time
}

// NewCoordinator builds a Coordinator. A non-positive threshold falls back
// to the default of 3. The archive may be nil when no document store is
// configured.
func NewCoordinator(store domain.SessionStore, archive domain.ReviewArchive, threshold int) *Coordinator {
	if threshold <= 0 {
		threshold = 3
	}
	return &Coordinator{
		store:     store,
		archive:   archive,
		threshold: threshold,
		now:       time.Now,
	}
}

// Ingest creates or overwrites the manager's session from a batch. Every
// queued item is forced to pending regardless of any stale status the batch
// carried. If nothing survives the rating filter the session is born
// completed. An error batch aborts before any session mutation.
//
// The caller must hold the per-manager guard: the write here races with
// foreground transitions against the old session, and the new session is
// authoritative.
func (c *Coordinator) Ingest(ctx context.Context, managerID domain.ManagerID, batch *domain.AnalysisBatch) (*domain.IngestReport, error) {
	log := observability.LoggerFromContext(ctx).With("manager_id", managerID)

	if batch == nil {
		return nil, &IngestionError{Reason: "nil batch"}
	}
	if batch.Status == domain.BatchError {
		reason := batch.Message
		if reason == "" {
			reason = "upstream pipeline reported an error"
		}
		log.Error("batch rejected", "reason", reason)
		return nil, &IngestionError{Reason: reason}
	}

	queue := make([]*domain.ReviewItem, 0, len(batch.AnalyzedReviews))
	for _, item := range batch.AnalyzedReviews {
		if item == nil {
			continue
		}
		if item.Rating <= c.threshold {
			// Overwrite whatever status the batch carried; every queued
			// item starts pending.
			item.ApprovalStatus = domain.ApprovalPending
			item.ManagerFeedback = ""
			queue = append(queue, item)
		}
	}

	total := len(batch.AnalyzedReviews)
	excluded := total - len(queue)

	now := c.now()
	session := &domain.Session{
		ManagerID:    managerID,
		Restaurant:   batch.RestaurantName,
		Items:        queue,
		Cursor:       0,
		Lifecycle:    domain.LifecycleInitialized,
		Epoch:        c.nextEpoch(managerID),
		LastActivity: now,
		CreatedAt:    now,
	}
	if session.Exhausted() {
		session.Lifecycle = domain.LifecycleCompleted
	}

	if err := c.store.PutSession(session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	if c.archive != nil && total > 0 {
		if err := c.archive.SaveBatch(ctx, batch.RestaurantName, batch.AnalyzedReviews); err != nil {
			// Archival is best-effort; the session is already live.
			log.Warn("archiving batch failed", "error", err)
		}
	}

	log.Info("batch ingested",
		"restaurant", batch.RestaurantName,
		"total", total,
		"excluded", excluded,
		"pending", len(queue),
		"completed", session.Lifecycle == domain.LifecycleCompleted,
	)

	return &domain.IngestReport{
		RestaurantName: batch.RestaurantName,
		Total:          total,
		Excluded:       excluded,
		Pending:        len(queue),
		Completed:      session.Lifecycle == domain.LifecycleCompleted,
	}, nil
}

// Threshold exposes the configured rating split for logging and tests.
func (c *Coordinator) Threshold() int {
	return c.threshold
}

func (c *Coordinator) nextEpoch(managerID domain.ManagerID) int64 {
	prev, err := c.store.GetSession(managerID)
	if err != nil || prev == nil {
		return 1
	}
	return prev.Epoch + 1
}
