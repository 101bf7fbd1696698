package srs

import (
	"errors"
	"testing"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want Rating
	}{
		{"1", Again},
		{"2", Hard},
		{"good", Good},
		{" Easy ", Easy},
	}
	for _, tt := range tests {
		got, err := ParseRating(tt.in)
		if err != nil {
			t.Errorf("ParseRating(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRating(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"0", "5", "great", ""} {
		if _, err := ParseRating(bad); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("ParseRating(%q) err = %v, want ErrInvalidRating", bad, err)
		}
	}
}

func TestRatingIsCorrect(t *testing.T) {
	want := map[Rating]bool{Again: false, Hard: false, Good: true, Easy: true}
	for r, ok := range want {
		if r.IsCorrect() != ok {
			t.Errorf("%s.IsCorrect() = %v, want %v", r, !ok, ok)
		}
	}
}

func TestRatingsAscending(t *testing.T) {
	want := [...]Rating{Again, Hard, Good, Easy}
	if Ratings != want {
		t.Fatalf("Ratings = %v, want %v", Ratings, want)
	}
	for _, r := range Ratings {
		if !r.IsValid() {
			t.Errorf("%v is not valid", r)
		}
	}
}
