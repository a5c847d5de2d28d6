package spaced_repetition

import "testing"

func TestRatingString(t *testing.T) {
	tests := []struct {
		rating Rating
		want   string
	}{
		{Again, "Again"},
		{Hard, "Hard"},
		{Good, "Good"},
		{Easy, "Easy"},
		{Mastered, "Mastered"},
		{Rating(0), "Rating(0)"},
		{Rating(9), "Rating(9)"},
	}
	for _, tt := range tests {
		if got := tt.rating.String(); got != tt.want {
			t.Errorf("Rating(%d).String() = %q, want %q", int(tt.rating), got, tt.want)
		}
	}
}

func TestRatingIsValid(t *testing.T) {
	for r := Again; r <= Mastered; r++ {
		if !r.IsValid() {
			t.Errorf("Rating(%d).IsValid() = false, want true", int(r))
		}
	}
	for _, r := range []Rating{0, 6, -3} {
		if r.IsValid() {
			t.Errorf("Rating(%d).IsValid() = true, want false", int(r))
		}
	}
}
