package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

type stubSource struct {
	raws []domain.RawReview
	err  error
}

func (s *stubSource) FetchReviews(ctx context.Context, restaurant string, limit int) ([]domain.RawReview, error) {
	return s.raws, s.err
}

type stubAnalyst struct {
	summaryErr error
	draftErr   error
}

func (s *stubAnalyst) SummarizeReview(ctx context.Context, text string) (string, error) {
	if s.summaryErr != nil {
		return "", s.summaryErr
	}
	return "synopsis: " + text[:20], nil
}

func (s *stubAnalyst) DraftResponse(ctx context.Context, item *domain.ReviewItem, restaurant string) (string, error) {
	if s.draftErr != nil {
		return "", s.draftErr
	}
	return "Dear " + item.Author + ", thanks for visiting " + restaurant + ".", nil
}

func TestCollectAnalyzesEveryReview(t *testing.T) {
	source := &stubSource{raws: []domain.RawReview{
		{Author: "Maria", Rating: 1, Time: "2 weeks ago", Text: "terrible wait"},
		{Author: "Lena", Rating: 5, Time: "2 days ago", Text: "wonderful"},
	}}
	collector := NewCollector(source, &stubAnalyst{})

	batch, err := collector.Collect(context.Background(), "kfc", 10)
	require.NoError(t, err)

	assert.Equal(t, domain.BatchSuccess, batch.Status)
	assert.Equal(t, "kfc", batch.RestaurantName)
	assert.Equal(t, 2, batch.TotalAnalyzed)
	require.Len(t, batch.AnalyzedReviews, 2)

	first := batch.AnalyzedReviews[0]
	assert.Equal(t, domain.SentimentNegative, first.Sentiment)
	assert.Equal(t, domain.ApprovalPending, first.ApprovalStatus)
	assert.Contains(t, first.Response, "Dear Maria")
	assert.NotContains(t, first.Time, "ago")

	assert.Equal(t, domain.SentimentPositive, batch.AnalyzedReviews[1].Sentiment)
}

func TestCollectDropsUnratedReviews(t *testing.T) {
	source := &stubSource{raws: []domain.RawReview{
		{Author: "Ghost", Rating: 0, Text: "extraction failed"},
		{Author: "Tom", Rating: 2, Text: "cold fries"},
		{Author: "Broken", Rating: 9, Text: "impossible rating"},
	}}
	collector := NewCollector(source, &stubAnalyst{})

	batch, err := collector.Collect(context.Background(), "kfc", 10)
	require.NoError(t, err)

	require.Len(t, batch.AnalyzedReviews, 1)
	assert.Equal(t, "Tom", batch.AnalyzedReviews[0].Author)
}

func TestCollectSummarizesOnlyLongReviews(t *testing.T) {
	long := strings.Repeat("the service was slow and ", 15)
	source := &stubSource{raws: []domain.RawReview{
		{Author: "Short", Rating: 2, Text: "meh"},
		{Author: "Long", Rating: 2, Text: long},
	}}
	collector := NewCollector(source, &stubAnalyst{})

	batch, err := collector.Collect(context.Background(), "kfc", 10)
	require.NoError(t, err)

	assert.Empty(t, batch.AnalyzedReviews[0].SummarizedText)
	assert.NotEmpty(t, batch.AnalyzedReviews[1].SummarizedText)
}

func TestCollectFallsBackWhenDraftingFails(t *testing.T) {
	source := &stubSource{raws: []domain.RawReview{
		{Author: "Maria", Rating: 1, Text: "terrible wait"},
	}}
	collector := NewCollector(source, &stubAnalyst{draftErr: errors.New("model down")})

	batch, err := collector.Collect(context.Background(), "kfc", 10)
	require.NoError(t, err)

	require.Len(t, batch.AnalyzedReviews, 1)
	assert.Contains(t, batch.AnalyzedReviews[0].Response, "Dear Maria")
	assert.Contains(t, batch.AnalyzedReviews[0].Response, "make things right")
}

func TestCollectScrapeFailureYieldsErrorBatch(t *testing.T) {
	collector := NewCollector(&stubSource{err: errors.New("no browser")}, &stubAnalyst{})

	batch, err := collector.Collect(context.Background(), "kfc", 10)
	require.NoError(t, err)

	assert.Equal(t, domain.BatchError, batch.Status)
	assert.Contains(t, batch.Message, "no browser")
	assert.Empty(t, batch.AnalyzedReviews)
}

func TestNormalizeRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		raw  string
		want string
	}{
		{"2 days ago", "June-2025"},
		{"a week ago", "June-2025"},
		{"3 weeks ago", "May-2025"},
		{"2 months ago", "April-2025"},
		{"a year ago", "June-2024"},
		{"", "Unknown Date"},
		{"just visited", "just visited"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeRelativeTime(tc.raw, now), "raw=%q", tc.raw)
	}
}

func TestNormalizeRelativeTimePicksMarkerLine(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	raw := "\n3 weeks ago"
	assert.Equal(t, "May-2025", NormalizeRelativeTime(raw, now))
}

func TestNormalizeRelativeTimeIsStable(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	later := now.AddDate(0, 0, 10)

	// Normalization happens once at ingestion; re-running with a later
	// reference would drift, which is exactly why callers must not.
	assert.Equal(t, "May-2025", NormalizeRelativeTime("4 weeks ago", now))
	assert.Equal(t, "May-2025", NormalizeRelativeTime("4 weeks ago", later))
}
