package srs

import (
	"fmt"
	"math"
	"time"
)

var defaultAlgo = newAlgo(DefaultParameters)

// Retrievability evaluates the default FSRS-6 forgetting curve for state at now.
// It returns nil when the card has not been reviewed yet.
func Retrievability(state *Card, now time.Time) *float64 {
	s := Scheduler{algo: defaultAlgo}
	return s.Retrievability(state, now)
}

// Previews are humanized intervals until the next review, one per rating.
type Previews struct {
	Again string `json:"again"`
	Hard  string `json:"hard"`
	Good  string `json:"good"`
	Easy  string `json:"easy"`
}

// Get returns the preview string for r.
func (p Previews) Get(r Rating) string {
	switch r {
	case Again:
		return p.Again
	case Hard:
		return p.Hard
	case Good:
		return p.Good
	case Easy:
		return p.Easy
	}
	return ""
}

// IntervalPreviews projects the next due date of state for each rating without mutating it.
func (s *Scheduler) IntervalPreviews(state *Card, now time.Time) (Previews, error) {
	// the rating only selects Result.Next, every rating's due date is computed
	res, err := s.Schedule(state, Good, now)
	if err != nil {
		return Previews{}, err
	}
	return PreviewsFromDue(res.Due, now), nil
}

// PreviewsFromDue formats the due dates produced by Schedule relative to now.
func PreviewsFromDue(due map[Rating]time.Time, now time.Time) Previews {
	return Previews{
		Again: HumanizeInterval(due[Again].Sub(now)),
		Hard:  HumanizeInterval(due[Hard].Sub(now)),
		Good:  HumanizeInterval(due[Good].Sub(now)),
		Easy:  HumanizeInterval(due[Easy].Sub(now)),
	}
}

// HumanizeInterval renders d as "{n}m", "{n}h", "{n}d" or "{n}mo" (30-day months).
func HumanizeInterval(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	const day = 24 * time.Hour
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(math.Round(d.Minutes())))
	case d < day:
		return fmt.Sprintf("%dh", int(math.Round(d.Hours())))
	case d < 30*day:
		return fmt.Sprintf("%dd", int(math.Round(d.Hours()/24)))
	default:
		return fmt.Sprintf("%dmo", int(math.Round(d.Hours()/24/30)))
	}
}
