package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
	"github.com/PabloGalante/reviewsense-agent/internal/observability"
)

// summarizeAbove is the review length beyond which a synopsis is worth
// generating. Short reviews are their own summary.
const summarizeAbove = 200

// Collector runs the fetch-and-analyze half of ingestion: scrape raw
// reviews, normalize recency, derive sentiment, summarize long text and
// draft a proposed reply for each review. It never touches the session
// store; applying a batch is the Coordinator's job.
type Collector struct {
	source  domain.ReviewSource
	analyst domain.ReviewAnalyst
	now     func() time.Time
}

func NewCollector(source domain.ReviewSource, analyst domain.ReviewAnalyst) *Collector {
	return &Collector{
		source:  source,
		analyst: analyst,
		now:     time.Now,
	}
}

// Collect implements domain.ReviewCollector. A scrape failure yields a
// batch with BatchError status rather than a bare error, so the caller can
// surface it to the manager the same way an upstream pipeline error would
// be.
func (c *Collector) Collect(ctx context.Context, restaurant string, limit int) (*domain.AnalysisBatch, error) {
	log := observability.LoggerFromContext(ctx).With("restaurant", restaurant)
	log.Info("collecting reviews", "limit", limit)

	raws, err := c.source.FetchReviews(ctx, restaurant, limit)
	if err != nil {
		log.Error("review fetch failed", "error", err)
		return &domain.AnalysisBatch{
			Status:         domain.BatchError,
			Message:        fmt.Sprintf("fetching reviews: %v", err),
			RestaurantName: restaurant,
		}, nil
	}

	now := c.now()
	items := make([]*domain.ReviewItem, 0, len(raws))
	for _, raw := range raws {
		// A rating outside 1-5 means extraction failed; the review is
		// unusable for the split policy and is dropped here.
		if raw.Rating < 1 || raw.Rating > 5 {
			continue
		}

		item := &domain.ReviewItem{
			Rating:         raw.Rating,
			Text:           raw.Text,
			Author:         raw.Author,
			Time:           NormalizeRelativeTime(raw.Time, now),
			Sentiment:      domain.SentimentForRating(raw.Rating),
			ApprovalStatus: domain.ApprovalPending,
		}

		if len(item.Text) > summarizeAbove {
			summary, err := c.analyst.SummarizeReview(ctx, item.Text)
			if err != nil {
				log.Warn("summarization failed, leaving synopsis empty", "author", item.Author, "error", err)
			} else {
				item.SummarizedText = summary
			}
		}

		response, err := c.analyst.DraftResponse(ctx, item, restaurant)
		if err != nil {
			log.Warn("response drafting failed, using fallback", "author", item.Author, "error", err)
			response = fallbackResponse(item, restaurant)
		}
		item.Response = response

		items = append(items, item)
	}

	log.Info("collection complete", "scraped", len(raws), "analyzed", len(items))

	return &domain.AnalysisBatch{
		Status:          domain.BatchSuccess,
		RestaurantName:  restaurant,
		TotalAnalyzed:   len(items),
		AnalyzedReviews: items,
	}, nil
}

func fallbackResponse(item *domain.ReviewItem, restaurant string) string {
	return fmt.Sprintf(
		"Dear %s,\n\nThank you for taking the time to share your experience at %s. We take every piece of feedback seriously and would love the chance to make things right. Please reach out to us directly so we can follow up.\n\nWarm regards,\nRestaurant Manager",
		item.Author, restaurant,
	)
}
