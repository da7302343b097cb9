package review

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// State is the learning phase of a card. The numeric values are persisted.
type State int

const (
	StateNew State = iota
	StateLearning
	StateReview
	StateRelearning
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateLearning:
		return "Learning"
	case StateReview:
		return "Review"
	case StateRelearning:
		return "Relearning"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

// SchedulingState is the part of a card owned by the scheduler.
type SchedulingState struct {
	Due           time.Time
	Stability     float64
	Difficulty    float64
	ElapsedDays   int
	ScheduledDays int
	LearningSteps int
	Reps          int
	Lapses        int
	State         State
	LastReview    *time.Time
}

// Validate reports ErrInvalidCardState when a field is missing or out of range.
func (s SchedulingState) Validate() error {
	switch {
	case s.Due.IsZero():
		return fmt.Errorf("%w: due is missing", ErrInvalidCardState)
	case !s.State.IsValid():
		return fmt.Errorf("%w: unknown state %d", ErrInvalidCardState, int(s.State))
	case math.IsNaN(s.Stability) || math.IsInf(s.Stability, 0) || s.Stability < 0:
		return fmt.Errorf("%w: stability %v", ErrInvalidCardState, s.Stability)
	case math.IsNaN(s.Difficulty) || math.IsInf(s.Difficulty, 0):
		return fmt.Errorf("%w: difficulty %v", ErrInvalidCardState, s.Difficulty)
	case s.ElapsedDays < 0 || s.ScheduledDays < 0 || s.LearningSteps < 0 || s.Reps < 0 || s.Lapses < 0:
		return fmt.Errorf("%w: negative counter", ErrInvalidCardState)
	case s.State != StateNew && s.LastReview == nil:
		return fmt.Errorf("%w: %s card has no last review", ErrInvalidCardState, s.State)
	case s.State != StateNew && s.Stability == 0:
		return fmt.Errorf("%w: %s card has no stability", ErrInvalidCardState, s.State)
	case s.Reps > 0 && s.LastReview == nil:
		return fmt.Errorf("%w: reviewed card has no last review", ErrInvalidCardState)
	}
	return nil
}

// Card is one question/answer pair with its scheduling state.
type Card struct {
	ID        string
	DeckID    string
	Question  string
	Answer    string
	CreatedAt time.Time
	SchedulingState
}

// NewCard returns an unreviewed card, due immediately.
func NewCard(id, deckID, question, answer string, now time.Time) Card {
	return Card{
		ID:        id,
		DeckID:    deckID,
		Question:  question,
		Answer:    answer,
		CreatedAt: now,
		SchedulingState: SchedulingState{
			Due:   now,
			State: StateNew,
		},
	}
}

// LogSnapshot is what a scheduler reports about one transition.
// Due, Stability, Difficulty and State are the values after the review.
type LogSnapshot struct {
	Rating          Rating
	State           State
	Due             time.Time
	Stability       float64
	Difficulty      float64
	ElapsedDays     int
	LastElapsedDays int
	ScheduledDays   int
	LearningSteps   int
	Reviewed        time.Time
}

// ReviewLog is an append-only record of one review of one card.
type ReviewLog struct {
	ID     string
	CardID string
	DeckID string
	LogSnapshot
}

// NewID returns a random identifier for decks, cards, logs and summaries.
func NewID() string {
	return uuid.NewString()
}
