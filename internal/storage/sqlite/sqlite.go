// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- SessionStore ---

// GetSession reads the singleton session row. No row means logged out.
func (s *SQLiteStore) GetSession(ctx context.Context) (*models.Session, error) {
	var (
		authenticated bool
		userJSON      sql.NullString
		token         sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT authenticated, user_json, token FROM session WHERE slot = 1",
	).Scan(&authenticated, &userJSON, &token)
	if err == sql.ErrNoRows {
		return models.Anonymous(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session := &models.Session{Authenticated: authenticated, Token: token.String}
	if userJSON.Valid && userJSON.String != "" {
		var snap models.UserSnapshot
		if err := json.Unmarshal([]byte(userJSON.String), &snap); err == nil {
			session.User = &snap
		}
		// An unparseable snapshot leaves User nil; the session manager
		// treats authenticated-without-user as corrupt.
	}
	return session, nil
}

// SaveSession upserts the singleton session row.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *models.Session) error {
	if session == nil || !session.Authenticated {
		return s.ClearSession(ctx)
	}

	var userJSON sql.NullString
	if session.User != nil {
		raw, err := json.Marshal(session.User)
		if err != nil {
			return fmt.Errorf("failed to encode user snapshot: %w", err)
		}
		userJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (slot, authenticated, user_json, token)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			authenticated = excluded.authenticated,
			user_json = excluded.user_json,
			token = excluded.token
	`, session.Authenticated, userJSON, session.Token)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearSession deletes the session row only; registry, habits and the
// entitlement cache survive logout.
func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE slot = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// GetEntitlement reads the cached flags; no row means nothing cached.
func (s *SQLiteStore) GetEntitlement(ctx context.Context) (*models.Entitlement, error) {
	var premium bool
	err := s.db.QueryRowContext(ctx,
		"SELECT is_premium FROM entitlement_cache WHERE slot = 1",
	).Scan(&premium)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}
	return &models.Entitlement{IsPremium: premium}, nil
}

// SaveEntitlement upserts the cached flags.
func (s *SQLiteStore) SaveEntitlement(ctx context.Context, ent models.Entitlement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entitlement_cache (slot, is_premium)
		VALUES (1, ?)
		ON CONFLICT(slot) DO UPDATE SET is_premium = excluded.is_premium
	`, ent.IsPremium)
	if err != nil {
		return fmt.Errorf("failed to save entitlement: %w", err)
	}
	return nil
}

// --- PageViewStore ---

// IncrementPageView bumps the counter for path and returns the new count.
func (s *SQLiteStore) IncrementPageView(ctx context.Context, path string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO page_views (path, count) VALUES (?, 1)
		ON CONFLICT(path) DO UPDATE SET count = count + 1
		RETURNING count
	`, path).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment page view: %w", err)
	}
	return count, nil
}

// PageViews returns the accumulated path -> count map.
func (s *SQLiteStore) PageViews(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, count FROM page_views")
	if err != nil {
		return nil, fmt.Errorf("failed to get page views: %w", err)
	}
	defer rows.Close()

	views := map[string]int64{}
	for rows.Next() {
		var (
			path  string
			count int64
		)
		if err := rows.Scan(&path, &count); err != nil {
			return nil, fmt.Errorf("failed to scan page view: %w", err)
		}
		views[path] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate page views: %w", err)
	}
	return views, nil
}
