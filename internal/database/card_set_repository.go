package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flashbot/pkg/models"
	"github.com/google/uuid"
)

// CardSetRepository handles database operations for card sets
type CardSetRepository struct{}

// NewCardSetRepository creates a new repository instance
func NewCardSetRepository() *CardSetRepository {
	return &CardSetRepository{}
}

// Create inserts a new card set, assigning an id if none is set
func (r *CardSetRepository) Create(ctx context.Context, set *models.CardSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	query := `
		INSERT INTO card_sets (id, user_id, name, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := DB.ExecContext(ctx, query,
		set.ID, set.UserID, set.Name, set.IsPublic, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card set: %w", err)
	}
	return nil
}

// GetByID returns a card set by id
func (r *CardSetRepository) GetByID(ctx context.Context, id string) (models.CardSet, error) {
	var set models.CardSet
	err := DB.GetContext(ctx, &set,
		"SELECT id, user_id, name, is_public, created_at, updated_at FROM card_sets WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CardSet{}, ErrNotFound
	}
	if err != nil {
		return models.CardSet{}, fmt.Errorf("failed to get card set: %w", err)
	}
	return set, nil
}

// GetByUser returns all sets owned by a user
func (r *CardSetRepository) GetByUser(ctx context.Context, userID int64) ([]models.CardSet, error) {
	var sets []models.CardSet
	query := `
		SELECT id, user_id, name, is_public, created_at, updated_at
		FROM card_sets
		WHERE user_id = $1
		ORDER BY name ASC
	`
	if err := DB.SelectContext(ctx, &sets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get card sets: %w", err)
	}
	return sets, nil
}

// Delete removes a set together with its cards and any progress on them
func (r *CardSetRepository) Delete(ctx context.Context, id string) error {
	if _, err := DB.ExecContext(ctx, "DELETE FROM card_progress WHERE set_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete set progress: %w", err)
	}
	if _, err := DB.ExecContext(ctx, "DELETE FROM cards WHERE set_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete set cards: %w", err)
	}
	if _, err := DB.ExecContext(ctx, "DELETE FROM card_sets WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete card set: %w", err)
	}
	return nil
}
