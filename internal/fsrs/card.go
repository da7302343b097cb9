// Package fsrs implements the FSRS-6 spaced-repetition model: given a card's
// memory state and a rating it computes the next state and due date.
package fsrs

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRating     = errors.New("fsrs: invalid rating")
	ErrInvalidState      = errors.New("fsrs: invalid card state")
	ErrInvalidParameters = errors.New("fsrs: parameters out of bounds")
)

type Rating int

const (
	Again Rating = iota + 1
	Hard
	Good
	Easy
)

func (r Rating) String() string {
	switch r {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	default:
		return fmt.Sprintf("Rating(%d)", int(r))
	}
}

func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// State is the learning phase of a card. The numeric values are persisted.
type State int

const (
	New State = iota
	Learning
	Review
	Relearning
)

func (s State) String() string {
	switch s {
	case New:
		return "New"
	case Learning:
		return "Learning"
	case Review:
		return "Review"
	case Relearning:
		return "Relearning"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) IsValid() bool {
	return s >= New && s <= Relearning
}

// Card is the scheduling state of one card.
type Card struct {
	Due           time.Time
	Stability     float64
	Difficulty    float64
	ElapsedDays   int
	ScheduledDays int
	// Step is the index into the learning or relearning steps; 0 outside those states.
	Step       int
	Reps       int
	Lapses     int
	State      State
	LastReview *time.Time
}

// NewCard returns an unreviewed card that is due at now.
func NewCard(now time.Time) Card {
	return Card{Due: now, State: New}
}

func (c Card) clone() Card {
	if c.LastReview != nil {
		lr := *c.LastReview
		c.LastReview = &lr
	}
	return c
}

// ReviewLog records the outcome of one review.
type ReviewLog struct {
	Rating Rating
	// State, Due, Stability and Difficulty are the values after the review.
	State           State
	Due             time.Time
	Stability       float64
	Difficulty      float64
	ElapsedDays     int
	LastElapsedDays int
	ScheduledDays   int
	Step            int
	Reviewed        time.Time
}
