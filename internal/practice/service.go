// Package practice exposes the review-submission and due-card operations
// that back a practice session.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/flashbot/internal/spaced_repetition"
	"github.com/example/flashbot/pkg/models"
)

// DueBatchSize bounds a single due-card fetch so one practice session stays
// finite; remaining due cards show up on the next call.
const DueBatchSize = 50

// Service coordinates the SM-2 scheduler with the progress store.
type Service struct {
	store Store
	sm2   *spaced_repetition.SM2
}

// NewService creates a practice service on top of a store
func NewService(store Store) *Service {
	return &Service{
		store: store,
		sm2:   spaced_repetition.NewSM2(),
	}
}

// SubmitReview records one graded recall: it reschedules the card, persists
// the new progress, and resets the user's reminder backoff. The progress
// record is created on the spot if the user has never seen the card.
func (s *Service) SubmitReview(ctx context.Context, userID int64, setID, cardID string, rating spaced_repetition.Rating, now time.Time) error {
	progress, err := s.store.GetProgress(ctx, userID, cardID)
	if errors.Is(err, ErrNotFound) {
		progress = spaced_repetition.NewProgress(userID, cardID, setID)
	} else if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	// Keep the set back-reference current even if the card moved sets
	progress.SetID = setID

	updated, err := s.sm2.Schedule(progress, rating, now)
	if err != nil {
		return err
	}

	if err := s.store.SaveProgress(ctx, updated); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	if err := s.store.ResetNotificationBackoff(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset notification backoff: %w", err)
	}

	return nil
}

// FetchDueCards returns the user's practice-ready cards, hydrated with term
// and definition content, bounded by DueBatchSize.
//
// Due card ids are grouped by set first and each set is fetched in one
// call, so the store sees one round-trip per distinct set rather than one
// per due card.
func (s *Service) FetchDueCards(ctx context.Context, userID int64, now time.Time) ([]models.Card, error) {
	refs, err := s.store.ListDueProgress(ctx, userID, now, DueBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list due progress: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}

	// Group due card ids by set, preserving first-seen set order
	bySet := make(map[string]map[string]bool, len(refs))
	var setOrder []string
	for _, ref := range refs {
		if bySet[ref.SetID] == nil {
			bySet[ref.SetID] = make(map[string]bool)
			setOrder = append(setOrder, ref.SetID)
		}
		bySet[ref.SetID][ref.CardID] = true
	}

	due := make([]models.Card, 0, len(refs))
	for _, setID := range setOrder {
		cards, err := s.store.CardsBySet(ctx, setID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch cards for set %s: %w", setID, err)
		}
		wanted := bySet[setID]
		for _, card := range cards {
			if wanted[card.ID] {
				due = append(due, card)
			}
		}
	}

	return due, nil
}

// CountDueCards reports how many cards are waiting for the user, up to
// DueBatchSize. The reminder poller uses this to decide whether a pass
// should notify at all.
func (s *Service) CountDueCards(ctx context.Context, userID int64, now time.Time) (int, error) {
	refs, err := s.store.ListDueProgress(ctx, userID, now, DueBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due progress: %w", err)
	}
	return len(refs), nil
}
