// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/habitkit/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore defines the interface for user-registry persistence.
// This abstraction allows swapping storage backends (JSON file, SQLite,
// a real database later) without changing the service layer.
type UserStore interface {
	// CreateUser appends a new user to the registry.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by exact, case-sensitive email
	// match. Returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns nil, nil when no
	// user has that ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// SetPremium updates the premium flag on a registered user.
	// Returns ErrNotFound if the user does not exist.
	SetPremium(ctx context.Context, userID string, premium bool) error
}

// HabitStore defines the interface for per-user habit persistence.
//
// Habits are read and written as a whole list per user: each user's
// list is one atomic storage unit, so a crash can never leave a single
// list half-written (though it can leave two different keys out of
// sync — there are no multi-key transactions).
type HabitStore interface {
	// ListHabits returns the user's habit list. A user with no stored
	// list gets an empty slice, not an error.
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)

	// SaveHabits replaces the user's habit list.
	SaveHabits(ctx context.Context, userID string, habits []models.Habit) error
}

// SessionStore defines the interface for the single current-session
// record and the cached entitlement flags written alongside it at login.
type SessionStore interface {
	// GetSession returns the stored session, or an anonymous session
	// if none is stored. It never returns nil with a nil error.
	GetSession(ctx context.Context) (*models.Session, error)

	// SaveSession replaces the stored session.
	SaveSession(ctx context.Context, session *models.Session) error

	// ClearSession removes the stored session, leaving the user
	// registry and habit lists untouched.
	ClearSession(ctx context.Context) error

	// GetEntitlement returns the cached entitlement flags, or nil if
	// none are cached (callers fall back to the registry).
	GetEntitlement(ctx context.Context) (*models.Entitlement, error)

	// SaveEntitlement caches the entitlement flags for the current user.
	SaveEntitlement(ctx context.Context, ent models.Entitlement) error
}

// PageViewStore accumulates the per-path page-view counters used for
// lightweight analytics. Counting is observability-only and must never
// affect auth correctness; callers ignore its errors.
type PageViewStore interface {
	// IncrementPageView adds one view for the given path and returns
	// the new count.
	IncrementPageView(ctx context.Context, path string) (int64, error)

	// PageViews returns the full path -> count map.
	PageViews(ctx context.Context) (map[string]int64, error)
}

// Store combines all storage interfaces into one backend handle.
type Store interface {
	UserStore
	HabitStore
	SessionStore
	PageViewStore

	// Close releases any resources held by the store.
	Close() error
}
