package srs

import (
	"fmt"
	"time"
)

const (
	DefaultDesiredRetention = 0.9
	DefaultMaximumInterval  = 36500
)

// Config tunes a Scheduler. Zero values fall back to the defaults noted per field.
type Config struct {
	Parameters       [21]float64     // zero → DefaultParameters
	DesiredRetention float64         // zero → 0.9
	MaximumInterval  int             // zero → 36500 days
	LearningSteps    []time.Duration // nil → [1m, 10m]; empty → graduate immediately
	RelearningSteps  []time.Duration // nil → [10m]; empty → stay in review
}

// DefaultConfig returns the configuration every learner starts with.
func DefaultConfig() Config {
	return Config{
		Parameters:       DefaultParameters,
		DesiredRetention: DefaultDesiredRetention,
		MaximumInterval:  DefaultMaximumInterval,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
	}
}

// WithRetention returns a copy of c using a learner's retention target and interval cap.
func (c Config) WithRetention(desiredRetention float64, maxInterval int) Config {
	c.DesiredRetention = desiredRetention
	c.MaximumInterval = maxInterval
	return c
}

// Result is the outcome of scheduling one review.
type Result struct {
	Next Card
	// Due holds the due date each rating would have produced, the chosen one included.
	Due map[Rating]time.Time
}

// Scheduler applies the FSRS-6 recurrence. It is immutable and safe for concurrent use.
type Scheduler struct {
	algo             algo
	desiredRetention float64
	maximumInterval  int
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	params := cfg.Parameters
	if params == [21]float64{} {
		params = DefaultParameters
	}
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	dr := cfg.DesiredRetention
	if dr == 0 {
		dr = DefaultDesiredRetention
	}
	if dr <= 0 || dr >= 1 {
		return nil, fmt.Errorf("%w: desired retention %f out of range (0, 1)", ErrInvalidParameters, dr)
	}

	maxIvl := cfg.MaximumInterval
	if maxIvl == 0 {
		maxIvl = DefaultMaximumInterval
	}
	if maxIvl < 1 {
		return nil, fmt.Errorf("%w: maximum interval %d must be positive", ErrInvalidParameters, maxIvl)
	}

	ls := cfg.LearningSteps
	if ls == nil {
		ls = []time.Duration{time.Minute, 10 * time.Minute}
	}
	rs := cfg.RelearningSteps
	if rs == nil {
		rs = []time.Duration{10 * time.Minute}
	}
	for _, step := range append(append([]time.Duration{}, ls...), rs...) {
		if step <= 0 {
			return nil, fmt.Errorf("%w: learning step %s must be positive", ErrInvalidParameters, step)
		}
	}

	return &Scheduler{
		algo:             newAlgo(params),
		desiredRetention: dr,
		maximumInterval:  maxIvl,
		learningSteps:    ls,
		relearningSteps:  rs,
	}, nil
}

// Schedule reviews state with rating at now. A nil state is a card that has never been reviewed.
// The input is never mutated.
func (s *Scheduler) Schedule(state *Card, rating Rating, now time.Time) (Result, error) {
	if !rating.IsValid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	card := NewCard(now)
	if state != nil {
		if err := state.validate(now); err != nil {
			return Result{}, err
		}
		card = state.clone()
	}

	res := Result{Due: make(map[Rating]time.Time, len(Ratings))}
	for _, r := range Ratings {
		next := s.review(card, r, now)
		res.Due[r] = next.Due
		if r == rating {
			res.Next = next
		}
	}
	return res, nil
}

// Retrievability returns the probability of recall at now, or nil before the first review.
func (s *Scheduler) Retrievability(state *Card, now time.Time) *float64 {
	if state == nil || state.State == New || state.Stability <= 0 {
		return nil
	}
	elapsed := state.ElapsedDays
	if state.LastReview != nil {
		elapsed = max(0, now.Sub(*state.LastReview).Hours()/24)
	}
	r := s.algo.retrievability(elapsed, state.Stability)
	return &r
}

func (s *Scheduler) review(card Card, rating Rating, now time.Time) Card {
	c := card.clone()

	var elapsed float64
	if c.LastReview != nil {
		elapsed = now.Sub(*c.LastReview).Hours() / 24
	}
	c.ElapsedDays = elapsed

	s.updateMemory(&c, rating, elapsed)

	interval := s.transition(&c, rating)

	c.Reps++
	c.Due = now.Add(interval)
	reviewedAt := now
	c.LastReview = &reviewedAt
	return c
}

func (s *Scheduler) updateMemory(c *Card, rating Rating, elapsedDays float64) {
	if c.State == New {
		c.Stability = s.algo.initStability(rating)
		c.Difficulty = s.algo.initDifficulty(rating, true)
		c.State = Learning
		c.LearningSteps = 0
		return
	}

	if elapsedDays < 1 {
		c.Stability = s.algo.shortTermStability(c.Stability, rating)
	} else {
		r := s.algo.retrievability(elapsedDays, c.Stability)
		c.Stability = s.algo.nextStability(c.Difficulty, c.Stability, r, rating)
	}
	c.Difficulty = s.algo.nextDifficulty(c.Difficulty, rating)
}

func (s *Scheduler) transition(c *Card, rating Rating) time.Duration {
	switch c.State {
	case Learning:
		return s.transitionLearning(c, rating, s.learningSteps)
	case Relearning:
		return s.transitionLearning(c, rating, s.relearningSteps)
	default:
		return s.transitionReview(c, rating)
	}
}

func (s *Scheduler) transitionLearning(c *Card, rating Rating, steps []time.Duration) time.Duration {
	step := c.LearningSteps
	if len(steps) == 0 || (step >= len(steps) && rating != Again) {
		return s.graduate(c)
	}

	c.ScheduledDays = 0
	switch rating {
	case Again:
		c.LearningSteps = 0
		return steps[0]
	case Hard:
		if step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if step == 0 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[step]
	case Good:
		if step+1 >= len(steps) {
			return s.graduate(c)
		}
		c.LearningSteps = step + 1
		return steps[step+1]
	default:
		return s.graduate(c)
	}
}

func (s *Scheduler) transitionReview(c *Card, rating Rating) time.Duration {
	if rating == Again {
		c.Lapses++
		if len(s.relearningSteps) > 0 {
			c.State = Relearning
			c.LearningSteps = 0
			c.ScheduledDays = 0
			return s.relearningSteps[0]
		}
	}
	return s.graduate(c)
}

func (s *Scheduler) graduate(c *Card) time.Duration {
	days := s.algo.nextInterval(c.Stability, s.desiredRetention, s.maximumInterval)
	c.State = Review
	c.LearningSteps = 0
	c.ScheduledDays = float64(days)
	return time.Duration(days) * 24 * time.Hour
}
