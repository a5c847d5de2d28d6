package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashbot/pkg/models"
)

// StatisticsRepository handles aggregate queries over card progress
type StatisticsRepository struct{}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository() *StatisticsRepository {
	return &StatisticsRepository{}
}

// GetUserStatistics returns a user's review statistics across all sets
func (r *StatisticsRepository) GetUserStatistics(ctx context.Context, userID int64, now time.Time) (models.LearningStats, error) {
	var stats models.LearningStats

	err := DB.GetContext(ctx, &stats.TotalCards,
		"SELECT COUNT(*) FROM card_progress WHERE user_id = $1", userID)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to count tracked cards: %w", err)
	}

	err = DB.GetContext(ctx, &stats.DueNow,
		"SELECT COUNT(*) FROM card_progress WHERE user_id = $1 AND next_review <= $2", userID, now)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to count due cards: %w", err)
	}

	// A card counts as mastered once it carries the 365-day retirement interval
	err = DB.GetContext(ctx, &stats.Mastered,
		"SELECT COUNT(*) FROM card_progress WHERE user_id = $1 AND interval_days >= 365", userID)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to count mastered cards: %w", err)
	}

	err = DB.GetContext(ctx, &stats.AvgEaseFactor,
		"SELECT COALESCE(AVG(ease_factor), 2.5) FROM card_progress WHERE user_id = $1", userID)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to average ease factor: %w", err)
	}

	return stats, nil
}

// GetSetStatistics returns how far a user has come with one set
func (r *StatisticsRepository) GetSetStatistics(ctx context.Context, userID int64, setID string) (models.LearningStats, error) {
	var stats models.LearningStats

	err := DB.GetContext(ctx, &stats.TotalCards,
		"SELECT COUNT(*) FROM card_progress WHERE user_id = $1 AND set_id = $2", userID, setID)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to count tracked cards: %w", err)
	}

	err = DB.GetContext(ctx, &stats.Mastered,
		"SELECT COUNT(*) FROM card_progress WHERE user_id = $1 AND set_id = $2 AND interval_days >= 365", userID, setID)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to count mastered cards: %w", err)
	}

	err = DB.GetContext(ctx, &stats.AvgEaseFactor,
		"SELECT COALESCE(AVG(ease_factor), 2.5) FROM card_progress WHERE user_id = $1 AND set_id = $2", userID, setID)
	if err != nil {
		return models.LearningStats{}, fmt.Errorf("failed to average ease factor: %w", err)
	}

	return stats, nil
}
