package srs

import (
	"fmt"
	"time"
)

// Card is the FSRS memory state of one card for one learner.
type Card struct {
	Stability     float64    `db:"stability" json:"stability"`
	Difficulty    float64    `db:"difficulty" json:"difficulty"`
	ElapsedDays   float64    `db:"elapsed_days" json:"elapsed_days"`
	ScheduledDays float64    `db:"scheduled_days" json:"scheduled_days"`
	Reps          int        `db:"reps" json:"reps"`
	Lapses        int        `db:"lapses" json:"lapses"`
	State         State      `db:"state" json:"state"`
	Due           time.Time  `db:"due" json:"due"`
	LastReview    *time.Time `db:"last_review" json:"last_review,omitempty"`
	LearningSteps int        `db:"learning_steps" json:"learning_steps"`
}

// NewCard is the empty seed used for a card that has never been reviewed.
func NewCard(now time.Time) Card {
	return Card{State: New, Due: now}
}

// IsDue reports whether the card is eligible for review at now.
func (c Card) IsDue(now time.Time) bool {
	return !c.Due.After(now)
}

func (c Card) clone() Card {
	out := c
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return out
}

func (c Card) validate(now time.Time) error {
	switch {
	case !c.State.IsValid():
		return fmt.Errorf("%w: unknown state %q", ErrInvalidState, c.State)
	case c.Stability < 0 || c.Difficulty < 0:
		return fmt.Errorf("%w: negative stability %f or difficulty %f", ErrInvalidState, c.Stability, c.Difficulty)
	case c.ElapsedDays < 0 || c.ScheduledDays < 0:
		return fmt.Errorf("%w: negative elapsed %f or scheduled %f days", ErrInvalidState, c.ElapsedDays, c.ScheduledDays)
	case c.Reps < 0 || c.Lapses < 0 || c.LearningSteps < 0:
		return fmt.Errorf("%w: negative counters (reps %d, lapses %d, step %d)", ErrInvalidState, c.Reps, c.Lapses, c.LearningSteps)
	case c.LastReview != nil && now.Before(*c.LastReview):
		return fmt.Errorf("%w: review at %s precedes last review %s", ErrInvalidState, now.Format(time.RFC3339), c.LastReview.Format(time.RFC3339))
	}
	if c.State != New {
		if c.Stability == 0 {
			return fmt.Errorf("%w: %s card without stability", ErrInvalidState, c.State)
		}
		if c.Difficulty < minDifficulty || c.Difficulty > maxDifficulty {
			return fmt.Errorf("%w: difficulty %f outside [1, 10]", ErrInvalidState, c.Difficulty)
		}
	}
	return nil
}
