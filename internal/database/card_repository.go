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

// CardRepository handles database operations for cards
type CardRepository struct{}

// NewCardRepository creates a new repository instance
func NewCardRepository() *CardRepository {
	return &CardRepository{}
}

// Create inserts a new card, assigning an id if none is set
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	query := `
		INSERT INTO cards (id, set_id, term, definition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := DB.ExecContext(ctx, query,
		card.ID, card.SetID, card.Term, card.Definition, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetByID returns a single card
func (r *CardRepository) GetByID(ctx context.Context, id string) (models.Card, error) {
	var card models.Card
	err := DB.GetContext(ctx, &card,
		"SELECT id, set_id, term, definition, created_at, updated_at FROM cards WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, ErrNotFound
	}
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// GetBySet bulk-fetches every card in a set in one query. The due-card path
// depends on this being a single round-trip per set.
func (r *CardRepository) GetBySet(ctx context.Context, setID string) ([]models.Card, error) {
	var cards []models.Card
	query := `
		SELECT id, set_id, term, definition, created_at, updated_at
		FROM cards
		WHERE set_id = $1
		ORDER BY created_at ASC
	`
	if err := DB.SelectContext(ctx, &cards, query, setID); err != nil {
		return nil, fmt.Errorf("failed to get cards for set: %w", err)
	}
	return cards, nil
}

// CountBySet returns the number of cards in a set
func (r *CardRepository) CountBySet(ctx context.Context, setID string) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM cards WHERE set_id = $1", setID); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	_, err := DB.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}
