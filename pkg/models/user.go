package models

import (
	"database/sql"
	"time"
)

// User represents a Telegram user using the bot
type User struct {
	ID                   int64        `json:"id" db:"telegram_id"` // Telegram User ID
	Username             string       `json:"username" db:"username"`
	FirstName            string       `json:"first_name" db:"first_name"`
	IsAdmin              bool         `json:"is_admin" db:"is_admin"`
	IsBanned             bool         `json:"is_banned" db:"is_banned"`
	NotificationsEnabled bool         `json:"notifications_enabled" db:"notifications_enabled"`
	BackoffLevel         int          `json:"notification_backoff_level" db:"notification_backoff_level"` // 0-4 index into the reminder wait ladder
	LastNotificationSent sql.NullTime `json:"last_notification_sent" db:"last_notification_sent"`
	LastActiveDate       sql.NullTime `json:"last_active_date" db:"last_active_date"`
	CreatedAt            time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" db:"updated_at"`
}
