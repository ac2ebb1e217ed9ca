// Package scraper collects restaurant reviews from Google Maps.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
	"github.com/PabloGalante/reviewsense-agent/internal/observability"
)

const (
	resultSelector   = "div.V0h1Ob-haAclf, div.Nv2PK"
	reviewsTabCSS    = "button[aria-label*='review' i]"
	feedSelector     = "div[role='feed']"
	reviewSelector   = "div.jftiEf, div.jJc9Ad"
	ratingSelector   = "span.kvMYJc, span[role='img']"
	authorSelector   = "div.d4r55, div.TSUbDb"
	timeSelector     = "span.rsqaWe, div.DU9Pgb"
	moreButtonCSS    = "button.w8nwRe"
	maxScrollRounds  = 15
	scrollSettleTime = 2 * time.Second
)

// MapsScraper drives a headless browser against Google Maps and
// extracts reviews for a restaurant. It implements domain.ReviewSource.
type MapsScraper struct {
	headless bool
	timeout  time.Duration
}

// NewMapsScraper returns a scraper that launches its own browser per fetch.
func NewMapsScraper(headless bool) *MapsScraper {
	return &MapsScraper{headless: headless, timeout: 90 * time.Second}
}

// FetchReviews searches Google Maps for the restaurant, opens the reviews
// tab and scrolls the feed until it has collected up to limit reviews.
func (s *MapsScraper) FetchReviews(ctx context.Context, restaurant string, limit int) ([]domain.RawReview, error) {
	logger := observability.LoggerFromContext(ctx)
	logger.Info("starting review scrape", "restaurant", restaurant, "limit", limit)

	controlURL, err := launcher.New().Headless(s.headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer browser.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	searchURL := "https://www.google.com/maps/search/" + url.QueryEscape(restaurant)
	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: searchURL})
	if err != nil {
		return nil, fmt.Errorf("navigating to search: %w", err)
	}
	defer page.Close()
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for search results: %w", err)
	}

	// Maps sometimes lands directly on the place page. Only click
	// through when a result list is present.
	if has, result, _ := page.Has(resultSelector); has {
		if err := result.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return nil, fmt.Errorf("opening first result: %w", err)
		}
		if err := page.WaitLoad(); err != nil {
			return nil, fmt.Errorf("waiting for place page: %w", err)
		}
	}

	if err := s.openReviewsTab(page); err != nil {
		return nil, err
	}

	reviews, err := s.collectReviews(page, limit, logger)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("no reviews found for %q", restaurant)
	}

	logger.Info("scrape complete", "restaurant", restaurant, "reviews", len(reviews))
	return reviews, nil
}

func (s *MapsScraper) openReviewsTab(page *rod.Page) error {
	tab, err := page.Element(reviewsTabCSS)
	if err != nil {
		// Fallback for localized layouts where the aria label differs.
		tab, err = page.ElementR("button", "(?i)review")
		if err != nil {
			return fmt.Errorf("locating reviews tab: %w", err)
		}
	}
	if err := tab.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("opening reviews tab: %w", err)
	}
	if _, err := page.Element(reviewSelector); err != nil {
		return fmt.Errorf("waiting for reviews feed: %w", err)
	}
	return nil
}

func (s *MapsScraper) collectReviews(page *rod.Page, limit int, logger *slog.Logger) ([]domain.RawReview, error) {
	seen := make(map[string]struct{})
	var reviews []domain.RawReview

	stale := 0
	for round := 0; round < maxScrollRounds && len(reviews) < limit; round++ {
		elements, err := page.Elements(reviewSelector)
		if err != nil {
			return nil, fmt.Errorf("finding review elements: %w", err)
		}

		before := len(reviews)
		for _, el := range elements {
			if len(reviews) >= limit {
				break
			}
			review, ok := extractReview(el)
			if !ok {
				continue
			}
			key := review.Author + ":" + clip(review.Text, 50)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			reviews = append(reviews, review)
		}

		if len(reviews) == before {
			stale++
			if stale >= 3 {
				break
			}
		} else {
			stale = 0
		}

		if err := scrollFeed(page); err != nil {
			logger.Debug("scrolling reviews feed failed", "error", err)
		}
		time.Sleep(scrollSettleTime)
	}
	return reviews, nil
}

func extractReview(el *rod.Element) (domain.RawReview, bool) {
	var review domain.RawReview

	if rating, err := el.Element(ratingSelector); err == nil {
		if label, err := rating.Attribute("aria-label"); err == nil && label != nil {
			review.Rating = parseRating(*label)
		}
	}
	if review.Rating == 0 {
		return review, false
	}

	// Expand the truncated text first when a "More" button is present.
	if more, err := el.Element(moreButtonCSS); err == nil {
		_ = more.Click(proto.InputMouseButtonLeft, 1)
	}
	if text, err := el.Element("span.wiI7pd, span.MyEned"); err == nil {
		review.Text, _ = text.Text()
	}
	if author, err := el.Element(authorSelector); err == nil {
		review.Author, _ = author.Text()
	}
	if posted, err := el.Element(timeSelector); err == nil {
		review.Time, _ = posted.Text()
	}

	review.Text = strings.TrimSpace(review.Text)
	review.Author = strings.TrimSpace(review.Author)
	review.Time = strings.TrimSpace(review.Time)
	return review, true
}

// parseRating reads ratings from aria labels like "4 stars" or "Rated 4.0
// out of 5".
func parseRating(label string) int {
	for _, field := range strings.Fields(label) {
		field = strings.TrimSuffix(field, ".0")
		if len(field) == 1 && field[0] >= '1' && field[0] <= '5' {
			return int(field[0] - '0')
		}
	}
	return 0
}

func scrollFeed(page *rod.Page) error {
	feed, err := page.Element(feedSelector)
	if err != nil {
		feed, err = page.Element("div.m6QErb")
		if err != nil {
			return fmt.Errorf("locating scroll container: %w", err)
		}
	}
	_, err = feed.Eval(`() => this.scrollBy(0, 1200)`)
	return err
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
