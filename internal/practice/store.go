package practice

import (
	"context"
	"errors"
	"time"

	"github.com/example/flashbot/pkg/models"
)

// ErrNotFound is returned by Store.GetProgress when the user has never
// reviewed the card. The service creates the progress record lazily in
// that case.
var ErrNotFound = errors.New("practice: progress not found")

// DueRef identifies a due progress record without its card content.
type DueRef struct {
	CardID string
	SetID  string
}

// Store is the persistence surface the practice service needs. The
// database package provides the production implementation.
type Store interface {
	// GetProgress returns the progress record for one (user, card) pair,
	// or an error satisfying errors.Is(err, ErrNotFound) if none exists.
	GetProgress(ctx context.Context, userID int64, cardID string) (models.CardProgress, error)
	// SaveProgress persists a progress record, creating or replacing it.
	SaveProgress(ctx context.Context, progress models.CardProgress) error
	// ListDueProgress returns up to limit (card_id, set_id) pairs whose
	// next_review is at or before now, earliest first.
	ListDueProgress(ctx context.Context, userID int64, now time.Time, limit int) ([]DueRef, error)
	// CardsBySet bulk-fetches every card in a set.
	CardsBySet(ctx context.Context, setID string) ([]models.Card, error)
	// ResetNotificationBackoff drops the user's reminder backoff level to
	// zero in response to a graded review.
	ResetNotificationBackoff(ctx context.Context, userID int64) error
}
