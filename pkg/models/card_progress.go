package models

import "time"

// CardProgress tracks a user's memory strength for a single card using the SM-2 algorithm.
// One record exists per (user, card) pair, created lazily on the first review.
type CardProgress struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	CardID       string    `json:"card_id" db:"card_id"`
	SetID        string    `json:"set_id" db:"set_id"`                // Owning set, stored redundantly to avoid a join
	Repetitions  int       `json:"repetitions" db:"repetitions"`     // Successful reviews in the current streak
	EaseFactor   float64   `json:"ease_factor" db:"ease_factor"`     // SM-2 EF parameter, kept within [1.3, 2.5]
	IntervalDays float64   `json:"interval_days" db:"interval_days"` // Days until the next review, may be fractional
	NextReview   time.Time `json:"next_review" db:"next_review"`
	LastReviewed time.Time `json:"last_reviewed" db:"last_reviewed"`
}
