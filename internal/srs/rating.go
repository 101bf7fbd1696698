package srs

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is the learner's self-assessed recall quality.
type Rating int

const (
	Again Rating = iota + 1
	Hard
	Good
	Easy
)

// Ratings lists every valid rating in ascending order.
var Ratings = [...]Rating{Again, Hard, Good, Easy}

var ratingNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// IsCorrect reports whether the rating counts as a correct answer (Good or Easy).
func (r Rating) IsCorrect() bool {
	return r == Good || r == Easy
}

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating accepts either the numeric form ("1".."4") or the name ("again", "Good", ...).
func ParseRating(s string) (Rating, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		r := Rating(n)
		if !r.IsValid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidRating, n)
		}
		return r, nil
	}
	for _, r := range Ratings {
		if ratingNames[r] == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}
