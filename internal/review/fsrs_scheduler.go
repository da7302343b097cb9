package review

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/decklearn/internal/config"
	"github.com/at-ishikawa/decklearn/internal/fsrs"
)

// FSRSScheduler adapts the FSRS model to the Scheduler interface.
type FSRSScheduler struct {
	scheduler *fsrs.Scheduler
}

func NewFSRSScheduler(cfg config.SchedulerConfig) (*FSRSScheduler, error) {
	s, err := fsrs.NewScheduler(fsrs.Config{
		DesiredRetention: cfg.DesiredRetention,
		LearningSteps:    cfg.LearningSteps,
		RelearningSteps:  cfg.RelearningSteps,
		MaximumInterval:  cfg.MaximumInterval,
		EnableFuzz:       cfg.EnableFuzz,
	})
	if err != nil {
		return nil, fmt.Errorf("fsrs.NewScheduler() > %w", err)
	}
	return &FSRSScheduler{scheduler: s}, nil
}

func (s *FSRSScheduler) Schedule(state SchedulingState, rating Rating, now time.Time) (SchedulingState, LogSnapshot, error) {
	card, log, err := s.scheduler.Review(toFSRSCard(state), fsrs.Rating(rating), now)
	if err != nil {
		return SchedulingState{}, LogSnapshot{}, err
	}
	return fromFSRSCard(card), LogSnapshot{
		Rating:          Rating(log.Rating),
		State:           State(log.State),
		Due:             log.Due,
		Stability:       log.Stability,
		Difficulty:      log.Difficulty,
		ElapsedDays:     log.ElapsedDays,
		LastElapsedDays: log.LastElapsedDays,
		ScheduledDays:   log.ScheduledDays,
		LearningSteps:   log.Step,
		Reviewed:        log.Reviewed,
	}, nil
}

// Retrievability is the model's probability of recalling the card at now.
func (s *FSRSScheduler) Retrievability(state SchedulingState, now time.Time) float64 {
	return s.scheduler.Retrievability(toFSRSCard(state), now)
}

func toFSRSCard(s SchedulingState) fsrs.Card {
	return fsrs.Card{
		Due:           s.Due,
		Stability:     s.Stability,
		Difficulty:    s.Difficulty,
		ElapsedDays:   s.ElapsedDays,
		ScheduledDays: s.ScheduledDays,
		Step:          s.LearningSteps,
		Reps:          s.Reps,
		Lapses:        s.Lapses,
		State:         fsrs.State(s.State),
		LastReview:    s.LastReview,
	}
}

func fromFSRSCard(c fsrs.Card) SchedulingState {
	return SchedulingState{
		Due:           c.Due,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		LearningSteps: c.Step,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
		State:         State(c.State),
		LastReview:    c.LastReview,
	}
}
