package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// ErrNotFound is returned by repositories when a requested record does not
// exist. Check with errors.Is.
var ErrNotFound = errors.New("database: record not found")

// Connect establishes a connection to the database. The driver is chosen by
// the DB_TYPE environment variable: "sqlite" (default) or "postgres".
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
	case "sqlite":
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath := filepath.Join(dataDir, "flashbot.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		return fmt.Errorf("unsupported DB_TYPE: %q", dbType)
	}

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates the tables if they don't exist. The DDL is kept
// portable between SQLite and PostgreSQL: text uuid keys, no AUTOINCREMENT.
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT false,
			is_banned BOOLEAN NOT NULL DEFAULT false,
			notifications_enabled BOOLEAN NOT NULL DEFAULT true,
			notification_backoff_level INTEGER NOT NULL DEFAULT 0,
			last_notification_sent TIMESTAMP,
			last_active_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS card_sets (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			is_public BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create card_sets table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL REFERENCES card_sets(id),
			term TEXT NOT NULL,
			definition TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}
	if _, err = DB.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_set_id ON cards(set_id)`); err != nil {
		return fmt.Errorf("failed to create cards set index: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS card_progress (
			user_id BIGINT NOT NULL,
			card_id TEXT NOT NULL,
			set_id TEXT NOT NULL,
			repetitions INTEGER NOT NULL DEFAULT 0,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			interval_days REAL NOT NULL DEFAULT 0,
			next_review TIMESTAMP NOT NULL,
			last_reviewed TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, card_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create card_progress table: %w", err)
	}
	// Serves the due-card range scan per user
	if _, err = DB.Exec(`CREATE INDEX IF NOT EXISTS idx_card_progress_due ON card_progress(user_id, next_review)`); err != nil {
		return fmt.Errorf("failed to create card_progress due index: %w", err)
	}

	return nil
}
