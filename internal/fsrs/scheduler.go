package fsrs

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const day = 24 * time.Hour

type Scheduler struct {
	model            model
	desiredRetention float64
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
	maximumInterval  int
	enableFuzz       bool
	seed             int64
}

// NewScheduler validates cfg and fills unset fields with defaults.
func NewScheduler(cfg Config) (*Scheduler, error) {
	params := cfg.Parameters
	if params == [21]float64{} {
		params = DefaultParameters
	}
	if err := validateParameters(params); err != nil {
		return nil, err
	}

	retention := cfg.DesiredRetention
	if retention == 0 {
		retention = 0.9
	}
	if retention < 0 || retention > 1 {
		return nil, fmt.Errorf("%w: desired retention %f out of range (0, 1]", ErrInvalidParameters, retention)
	}

	maxInterval := cfg.MaximumInterval
	if maxInterval == 0 {
		maxInterval = 36500
	}
	if maxInterval < 0 {
		return nil, fmt.Errorf("%w: maximum interval %d must be positive", ErrInvalidParameters, maxInterval)
	}

	learningSteps := cfg.LearningSteps
	if learningSteps == nil {
		learningSteps = []time.Duration{time.Minute, 10 * time.Minute}
	}
	relearningSteps := cfg.RelearningSteps
	if relearningSteps == nil {
		relearningSteps = []time.Duration{10 * time.Minute}
	}

	s := &Scheduler{
		model:            newModel(params),
		desiredRetention: retention,
		learningSteps:    learningSteps,
		relearningSteps:  relearningSteps,
		maximumInterval:  maxInterval,
		enableFuzz:       cfg.EnableFuzz,
		seed:             cfg.Seed,
	}
	return s, nil
}

// Review applies rating to card at now and returns the next card state with its log.
// The input card is not modified. The result depends only on the arguments, so
// Review is safe for concurrent use even with fuzz enabled.
func (s *Scheduler) Review(card Card, rating Rating, now time.Time) (Card, ReviewLog, error) {
	if !rating.IsValid() {
		return Card{}, ReviewLog{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if !card.State.IsValid() {
		return Card{}, ReviewLog{}, fmt.Errorf("%w: %s", ErrInvalidState, card.State)
	}

	c := card.clone()
	var elapsed float64
	if c.LastReview != nil {
		elapsed = math.Max(now.Sub(*c.LastReview).Hours()/24.0, 0)
	}

	s.updateMemory(&c, rating, elapsed)
	if c.State == New {
		c.State = Learning
		c.Step = 0
	}

	var interval time.Duration
	switch c.State {
	case Learning:
		interval = s.transitionStep(&c, rating, s.learningSteps)
	case Relearning:
		interval = s.transitionStep(&c, rating, s.relearningSteps)
	default:
		interval = s.transitionReview(&c, rating)
	}

	if s.enableFuzz && c.State == Review {
		if days := int(interval / day); days > 0 {
			rng := rand.New(rand.NewSource(fuzzSeed(s.seed, card, rating, now)))
			interval = time.Duration(fuzzInterval(days, s.maximumInterval, rng)) * day
		}
	}

	lastElapsedDays := c.ElapsedDays
	c.ElapsedDays = int(elapsed)
	c.ScheduledDays = int(interval / day)
	c.Due = now.Add(interval)
	c.Reps++
	if rating == Again {
		c.Lapses++
	}
	reviewed := now
	c.LastReview = &reviewed

	return c, ReviewLog{
		Rating:          rating,
		State:           c.State,
		Due:             c.Due,
		Stability:       c.Stability,
		Difficulty:      c.Difficulty,
		ElapsedDays:     c.ElapsedDays,
		LastElapsedDays: lastElapsedDays,
		ScheduledDays:   c.ScheduledDays,
		Step:            c.Step,
		Reviewed:        now,
	}, nil
}

// Retrievability is the probability of recalling the card at now; 0 for unreviewed cards.
func (s *Scheduler) Retrievability(card Card, now time.Time) float64 {
	if card.LastReview == nil || card.Stability <= 0 {
		return 0
	}
	elapsed := math.Max(now.Sub(*card.LastReview).Hours()/24.0, 0)
	return s.model.retrievability(elapsed, card.Stability)
}

func (s *Scheduler) updateMemory(c *Card, rating Rating, elapsedDays float64) {
	if c.State == New || c.Stability <= 0 {
		c.Stability = s.model.initStability(rating)
		c.Difficulty = s.model.initDifficulty(rating, true)
		return
	}

	if elapsedDays < 1 {
		c.Stability = s.model.shortTermStability(c.Stability, rating)
	} else {
		r := s.model.retrievability(elapsedDays, c.Stability)
		c.Stability = s.model.nextStability(c.Difficulty, c.Stability, r, rating)
	}
	c.Difficulty = s.model.nextDifficulty(c.Difficulty, rating)
}

// transitionStep moves a Learning or Relearning card through its steps.
func (s *Scheduler) transitionStep(c *Card, rating Rating, steps []time.Duration) time.Duration {
	if len(steps) == 0 || (c.Step >= len(steps) && rating != Again) {
		return s.graduate(c)
	}

	switch rating {
	case Again:
		c.Step = 0
		return steps[0]
	case Hard:
		if c.Step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if c.Step == 0 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[c.Step]
	case Good:
		if c.Step+1 >= len(steps) {
			return s.graduate(c)
		}
		c.Step++
		return steps[c.Step]
	default:
		return s.graduate(c)
	}
}

func (s *Scheduler) transitionReview(c *Card, rating Rating) time.Duration {
	if rating == Again && len(s.relearningSteps) > 0 {
		c.State = Relearning
		c.Step = 0
		return s.relearningSteps[0]
	}
	c.Step = 0
	return time.Duration(s.model.nextInterval(c.Stability, s.desiredRetention, s.maximumInterval)) * day
}

func (s *Scheduler) graduate(c *Card) time.Duration {
	c.State = Review
	c.Step = 0
	return time.Duration(s.model.nextInterval(c.Stability, s.desiredRetention, s.maximumInterval)) * day
}
