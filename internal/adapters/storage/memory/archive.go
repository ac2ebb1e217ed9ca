package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// ReviewArchive is the in-memory document archive used in local mode. It
// mirrors the Firestore archive's matching rules so local behavior carries
// over: revisions are matched by author plus a prefix of the review text.
type ReviewArchive struct {
	mu      sync.RWMutex
	batches map[string][]*domain.ReviewItem // keyed by restaurant
}

func NewReviewArchive() *ReviewArchive {
	return &ReviewArchive{
		batches: make(map[string][]*domain.ReviewItem),
	}
}

func (a *ReviewArchive) SaveBatch(ctx context.Context, restaurant string, items []*domain.ReviewItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored := make([]*domain.ReviewItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		cp := *item
		stored = append(stored, &cp)
	}
	a.batches[restaurant] = append(a.batches[restaurant], stored...)
	return nil
}

func (a *ReviewArchive) UpdateResponse(ctx context.Context, restaurant, author, textPrefix, response string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, item := range a.batches[restaurant] {
		if item.Author == author && strings.HasPrefix(item.Text, textPrefix) {
			item.Response = response
		}
	}
	return nil
}

// Reviews returns the archived reviews for a restaurant, for tests and
// diagnostics.
func (a *ReviewArchive) Reviews(restaurant string) []*domain.ReviewItem {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*domain.ReviewItem, len(a.batches[restaurant]))
	copy(out, a.batches[restaurant])
	return out
}
