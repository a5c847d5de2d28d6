package models

// LearningStats summarizes a user's review progress across all sets
type LearningStats struct {
	TotalCards    int     `json:"total_cards" db:"total_cards"`       // Cards the user has reviewed at least once
	DueNow        int     `json:"due_now" db:"due_now"`               // Cards with an elapsed next_review
	Mastered      int     `json:"mastered" db:"mastered"`             // Cards retired with the 365-day interval
	AvgEaseFactor float64 `json:"avg_ease_factor" db:"avg_ease_factor"`
}
