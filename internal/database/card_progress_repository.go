package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flashbot/pkg/models"
)

// CardProgressRepository handles database operations for per-user card progress
type CardProgressRepository struct{}

// NewCardProgressRepository creates a new repository instance
func NewCardProgressRepository() *CardProgressRepository {
	return &CardProgressRepository{}
}

// GetByUserAndCard returns progress for a specific user and card, or
// ErrNotFound when the user has never reviewed the card.
func (r *CardProgressRepository) GetByUserAndCard(ctx context.Context, userID int64, cardID string) (models.CardProgress, error) {
	var progress models.CardProgress
	query := `
		SELECT user_id, card_id, set_id, repetitions, ease_factor,
		       interval_days, next_review, last_reviewed
		FROM card_progress
		WHERE user_id = $1 AND card_id = $2
	`
	err := DB.GetContext(ctx, &progress, query, userID, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CardProgress{}, ErrNotFound
	}
	if err != nil {
		return models.CardProgress{}, fmt.Errorf("failed to get card progress: %w", err)
	}
	return progress, nil
}

// Upsert creates or replaces a progress record. Last write wins: the
// practice flow processes one card at a time per user, so there is no
// concurrent writer for the same row.
func (r *CardProgressRepository) Upsert(ctx context.Context, progress models.CardProgress) error {
	query := `
		INSERT INTO card_progress (
			user_id, card_id, set_id, repetitions, ease_factor,
			interval_days, next_review, last_reviewed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			set_id = EXCLUDED.set_id,
			repetitions = EXCLUDED.repetitions,
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			next_review = EXCLUDED.next_review,
			last_reviewed = EXCLUDED.last_reviewed
	`
	_, err := DB.ExecContext(ctx, query,
		progress.UserID,
		progress.CardID,
		progress.SetID,
		progress.Repetitions,
		progress.EaseFactor,
		progress.IntervalDays,
		progress.NextReview,
		progress.LastReviewed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert card progress: %w", err)
	}
	return nil
}

// DueRow mirrors the two columns the due-card listing needs
type DueRow struct {
	CardID string `db:"card_id"`
	SetID  string `db:"set_id"`
}

// ListDue returns up to limit (card_id, set_id) pairs with an elapsed
// next_review, earliest first.
func (r *CardProgressRepository) ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]DueRow, error) {
	query := `
		SELECT card_id, set_id
		FROM card_progress
		WHERE user_id = $1 AND next_review <= $2
		ORDER BY next_review ASC
		LIMIT $3
	`
	var rows []DueRow
	if err := DB.SelectContext(ctx, &rows, query, userID, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list due progress: %w", err)
	}
	return rows, nil
}

// Delete removes a progress record
func (r *CardProgressRepository) Delete(ctx context.Context, userID int64, cardID string) error {
	_, err := DB.ExecContext(ctx, "DELETE FROM card_progress WHERE user_id = $1 AND card_id = $2", userID, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card progress: %w", err)
	}
	return nil
}
