package scraper

import (
	"context"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// FixtureSource serves a canned batch of reviews so the whole pipeline can
// run locally without a browser. It implements domain.ReviewSource.
type FixtureSource struct {
	reviews []domain.RawReview
}

// NewFixtureSource returns a source with a representative spread of ratings.
func NewFixtureSource() *FixtureSource {
	return &FixtureSource{
		reviews: []domain.RawReview{
			{Author: "Maria G.", Rating: 1, Time: "2 weeks ago", Text: "Waited forty minutes for cold chicken. The staff ignored us the entire time and the tables were sticky."},
			{Author: "Tom H.", Rating: 2, Time: "a month ago", Text: "Order was wrong twice in a row. Fries were stale and the drink machine was out of everything but water."},
			{Author: "Priya S.", Rating: 3, Time: "3 weeks ago", Text: "Food was fine but the dining area really needs a clean. Average visit overall."},
			{Author: "James O.", Rating: 4, Time: "a week ago", Text: "Quick service and hot food. Parking is a bit tight at lunch."},
			{Author: "Lena K.", Rating: 5, Time: "2 days ago", Text: "Best branch in town. Friendly crew and the order was ready before I finished paying."},
			{Author: "Derek W.", Rating: 2, Time: "5 days ago", Text: "Music was far too loud and my burger arrived without the extras I paid for. Disappointing for the price."},
			{Author: "Sofia R.", Rating: 5, Time: "4 months ago", Text: "Always consistent. My kids love the place."},
			{Author: "Ahmed B.", Rating: 3, Time: "2 months ago", Text: "Decent food, slow counter. They were clearly understaffed on a Saturday night."},
		},
	}
}

// FetchReviews returns up to limit canned reviews.
func (f *FixtureSource) FetchReviews(_ context.Context, _ string, limit int) ([]domain.RawReview, error) {
	if limit <= 0 || limit > len(f.reviews) {
		limit = len(f.reviews)
	}
	out := make([]domain.RawReview, limit)
	copy(out, f.reviews[:limit])
	return out, nil
}
