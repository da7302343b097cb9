package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/decklearn/internal/config"
	"github.com/at-ishikawa/decklearn/internal/review"
)

var testNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func newFSRSOracle(t *testing.T) *review.Oracle {
	t.Helper()
	scheduler, err := review.NewFSRSScheduler(config.SchedulerConfig{})
	require.NoError(t, err)
	return review.NewOracle(scheduler)
}

func newTestCard(id string, due time.Time) review.Card {
	return review.NewCard(id, "deck-1", "question "+id, "answer "+id, due.Add(-time.Hour))
}

// cardWith returns a reviewed card with the given stability that is due at due.
func cardWith(id string, stability float64, due time.Time) review.Card {
	lastReview := due.Add(-time.Duration(stability * float64(24*time.Hour)))
	c := newTestCard(id, lastReview)
	c.SchedulingState = review.SchedulingState{
		Due:        due,
		Stability:  stability,
		Difficulty: 5,
		Reps:       2,
		State:      review.StateReview,
		LastReview: &lastReview,
	}
	return c
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
