package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flashbot/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `telegram_id, username, first_name, is_admin, is_banned,
	notifications_enabled, notification_backoff_level, last_notification_sent,
	last_active_date, created_at, updated_at`

// GetByID returns a user by Telegram id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	query := "SELECT " + userColumns + " FROM users WHERE telegram_id = $1"
	err := DB.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreate returns the user record, registering a new one on first contact
func (r *UserRepository) GetOrCreate(ctx context.Context, id int64, username, firstName string) (models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (telegram_id, username, first_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	if _, err := DB.ExecContext(ctx, query, id, username, firstName, now); err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := "SELECT " + userColumns + " FROM users ORDER BY telegram_id"
	if err := DB.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// UsersForReminders returns users eligible for the reminder pass:
// notifications on and not banned.
func (r *UserRepository) UsersForReminders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := "SELECT " + userColumns + ` FROM users
		WHERE notifications_enabled = true AND is_banned = false
		ORDER BY telegram_id`
	if err := DB.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to get users for reminders: %w", err)
	}
	return users, nil
}

// RecordNotificationSent persists the advanced backoff level and the send
// timestamp after a reminder was delivered.
func (r *UserRepository) RecordNotificationSent(ctx context.Context, userID int64, level int, sentAt time.Time) error {
	query := `
		UPDATE users SET
			notification_backoff_level = $1,
			last_notification_sent = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = $3
	`
	if _, err := DB.ExecContext(ctx, query, level, sentAt, userID); err != nil {
		return fmt.Errorf("failed to record notification state: %w", err)
	}
	return nil
}

// ResetNotificationBackoff drops the backoff level to zero; called whenever
// the user grades a card.
func (r *UserRepository) ResetNotificationBackoff(ctx context.Context, userID int64) error {
	query := `
		UPDATE users SET
			notification_backoff_level = 0,
			last_active_date = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = $1
	`
	if _, err := DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to reset notification backoff: %w", err)
	}
	return nil
}

// SetNotificationsEnabled toggles reminder delivery for a user
func (r *UserRepository) SetNotificationsEnabled(ctx context.Context, userID int64, enabled bool) error {
	query := `
		UPDATE users SET
			notifications_enabled = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = $2
	`
	if _, err := DB.ExecContext(ctx, query, enabled, userID); err != nil {
		return fmt.Errorf("failed to update notification setting: %w", err)
	}
	return nil
}

// SetBanned marks a user as banned or unbanned
func (r *UserRepository) SetBanned(ctx context.Context, userID int64, banned bool) error {
	query := `
		UPDATE users SET
			is_banned = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = $2
	`
	if _, err := DB.ExecContext(ctx, query, banned, userID); err != nil {
		return fmt.Errorf("failed to update ban flag: %w", err)
	}
	return nil
}
