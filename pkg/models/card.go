package models

import "time"

// Card represents a single flashcard inside a set
type Card struct {
	ID         string    `json:"id" db:"id"`
	SetID      string    `json:"set_id" db:"set_id"`
	Term       string    `json:"term" db:"term"`
	Definition string    `json:"definition" db:"definition"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
