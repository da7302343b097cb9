package review

import (
	"fmt"
	"time"
)

//go:generate mockgen -source=oracle.go -destination=../mocks/review/mock_scheduler.go -package=mock_review Scheduler

// Scheduler is a spaced-repetition model. Given identical inputs it must return
// identical outputs.
type Scheduler interface {
	Schedule(state SchedulingState, rating Rating, now time.Time) (SchedulingState, LogSnapshot, error)
}

// Oracle guards calls into a Scheduler: it only passes fully populated cards and
// known ratings, and turns the result into an updated card and a review log.
type Oracle struct {
	scheduler Scheduler
	newID     func() string
}

func NewOracle(scheduler Scheduler) *Oracle {
	return &Oracle{
		scheduler: scheduler,
		newID:     NewID,
	}
}

// Apply returns the card after rating it at now together with the log of the review.
// card is not modified.
func (o *Oracle) Apply(card *Card, rating Rating, now time.Time) (*Card, *ReviewLog, error) {
	if card == nil {
		return nil, nil, fmt.Errorf("%w: card is nil", ErrInvalidCardState)
	}
	if err := card.SchedulingState.Validate(); err != nil {
		return nil, nil, fmt.Errorf("card %s: %w", card.ID, err)
	}
	if !rating.IsValid() {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownRating, int(rating))
	}

	next, snapshot, err := o.scheduler.Schedule(card.SchedulingState, rating, now)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule card %s: %w", card.ID, err)
	}
	if err := next.Validate(); err != nil {
		return nil, nil, fmt.Errorf("scheduler returned state for card %s: %w", card.ID, err)
	}

	updated := *card
	updated.SchedulingState = next
	return &updated, &ReviewLog{
		ID:          o.newID(),
		CardID:      card.ID,
		DeckID:      card.DeckID,
		LogSnapshot: snapshot,
	}, nil
}
