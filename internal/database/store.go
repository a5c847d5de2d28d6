package database

import (
	"context"
	"errors"
	"time"

	"github.com/example/flashbot/internal/practice"
	"github.com/example/flashbot/pkg/models"
)

// Store bundles the repositories behind the interfaces the practice service
// and the reminder scheduler consume.
type Store struct {
	progress *CardProgressRepository
	cards    *CardRepository
	users    *UserRepository
}

// Compile-time interface check
var _ practice.Store = (*Store)(nil)

// NewStore creates the production store backed by the global connection
func NewStore() *Store {
	return &Store{
		progress: NewCardProgressRepository(),
		cards:    NewCardRepository(),
		users:    NewUserRepository(),
	}
}

// GetProgress implements practice.Store
func (s *Store) GetProgress(ctx context.Context, userID int64, cardID string) (models.CardProgress, error) {
	p, err := s.progress.GetByUserAndCard(ctx, userID, cardID)
	if errors.Is(err, ErrNotFound) {
		return models.CardProgress{}, practice.ErrNotFound
	}
	return p, err
}

// SaveProgress implements practice.Store
func (s *Store) SaveProgress(ctx context.Context, progress models.CardProgress) error {
	return s.progress.Upsert(ctx, progress)
}

// ListDueProgress implements practice.Store
func (s *Store) ListDueProgress(ctx context.Context, userID int64, now time.Time, limit int) ([]practice.DueRef, error) {
	rows, err := s.progress.ListDue(ctx, userID, now, limit)
	if err != nil {
		return nil, err
	}
	refs := make([]practice.DueRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, practice.DueRef{CardID: row.CardID, SetID: row.SetID})
	}
	return refs, nil
}

// CardsBySet implements practice.Store
func (s *Store) CardsBySet(ctx context.Context, setID string) ([]models.Card, error) {
	return s.cards.GetBySet(ctx, setID)
}

// ResetNotificationBackoff implements practice.Store
func (s *Store) ResetNotificationBackoff(ctx context.Context, userID int64) error {
	return s.users.ResetNotificationBackoff(ctx, userID)
}

// UsersForReminders implements scheduler.UserStore
func (s *Store) UsersForReminders(ctx context.Context) ([]models.User, error) {
	return s.users.UsersForReminders(ctx)
}

// RecordNotificationSent implements scheduler.UserStore
func (s *Store) RecordNotificationSent(ctx context.Context, userID int64, level int, sentAt time.Time) error {
	return s.users.RecordNotificationSent(ctx, userID, level, sentAt)
}
