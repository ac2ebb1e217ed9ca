package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentForRating(t *testing.T) {
	assert.Equal(t, SentimentNegative, SentimentForRating(1))
	assert.Equal(t, SentimentNegative, SentimentForRating(2))
	assert.Equal(t, SentimentNeutral, SentimentForRating(3))
	assert.Equal(t, SentimentPositive, SentimentForRating(4))
	assert.Equal(t, SentimentPositive, SentimentForRating(5))
}

func TestSessionCursorHelpers(t *testing.T) {
	s := &Session{
		Items: []*ReviewItem{
			{Author: "Maria"},
			{Author: "Tom"},
		},
	}

	item, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "Maria", item.Author)
	assert.False(t, s.Exhausted())

	s.Cursor = 2
	_, ok = s.Current()
	assert.False(t, ok)
	assert.True(t, s.Exhausted())
}

func TestSummaryCountsByStatus(t *testing.T) {
	s := &Session{
		Cursor: 1,
		Items: []*ReviewItem{
			{ApprovalStatus: ApprovalApproved},
			{ApprovalStatus: ApprovalPending},
			{ApprovalStatus: ApprovalNeedsRevision},
		},
	}

	c := s.Summary()
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 1, c.Approved)
	assert.Equal(t, 1, c.Pending)
	assert.Equal(t, 1, c.NeedsRevision)
	assert.Equal(t, 1, c.CurrentIndex)
	assert.False(t, c.Completed)

	// Two calls with no intervening decision are identical.
	assert.Equal(t, c, s.Summary())
}

func TestNilSessionSummaryIsZero(t *testing.T) {
	var s *Session
	assert.Equal(t, SummaryCounts{}, s.Summary())
}
