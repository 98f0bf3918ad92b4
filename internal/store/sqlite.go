package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the database connection
type Store struct {
	DB *sql.DB
}

// NewStore creates a new Store and initializes the database
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{DB: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates all necessary tables
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cta_clicks (
		id TEXT PRIMARY KEY,
		visitor_id TEXT NOT NULL,
		cta TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cta_clicks_created_at ON cta_clicks(created_at);

	CREATE TABLE IF NOT EXISTS bonus_unlocks (
		visitor_id TEXT PRIMARY KEY,
		unlocked_at DATETIME NOT NULL
	);
	`

	_, err := s.DB.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	// Run migrations for existing databases
	if err := s.migrateClickLocale(); err != nil {
		return fmt.Errorf("failed to migrate click locale column: %w", err)
	}

	return nil
}

// migrateClickLocale adds the locale column to cta_clicks if it doesn't exist
func (s *Store) migrateClickLocale() error {
	_, err := s.DB.Exec(`ALTER TABLE cta_clicks ADD COLUMN locale TEXT NOT NULL DEFAULT 'pt'`)
	if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
		return err
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.DB.Close()
}
