package spaced_repetition

import (
	"errors"
	"fmt"
)

// Rating represents the user's assessment of how well a card was recalled.
type Rating int

const (
	// Again - complete failure to recall, the card re-enters the short-term queue
	Again Rating = iota + 1
	// Hard - recalled with significant difficulty
	Hard
	// Good - recalled with some effort
	Good
	// Easy - recalled effortlessly
	Easy
	// Mastered - the user opts to retire the card from frequent rotation
	Mastered
)

// ErrInvalidRating is returned when a rating outside Again..Mastered reaches the
// scheduler. Check with errors.Is.
var ErrInvalidRating = errors.New("spaced_repetition: invalid rating")

var ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy", Mastered: "Mastered"}

// String returns the name of the rating. For invalid values it returns "Rating(n)".
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is a defined rating (Again through Mastered).
func (r Rating) IsValid() bool {
	return r >= Again && r <= Mastered
}
