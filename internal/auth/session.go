package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/habitkit/internal/metrics"
	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/storage"
)

// ErrCorruptSession marks a stored session that violates its invariant
// (authenticated flag with no backing user, or a token that fails
// validation). It is recovered from automatically by forcing a logout
// and is never surfaced to the user as an error.
var ErrCorruptSession = errors.New("corrupt session state")

// SessionManager derives, establishes and clears the current session.
//
// It is the single source of truth for session state: every check
// re-reads storage rather than trusting anything cached in memory, so
// the answer is correct across process restarts.
type SessionManager struct {
	sessions storage.SessionStore
	views    storage.PageViewStore
	tokens   *JWTManager
	logger   *slog.Logger
}

// NewSessionManager creates a session manager over the given stores.
func NewSessionManager(sessions storage.SessionStore, views storage.PageViewStore, tokens *JWTManager, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		views:    views,
		tokens:   tokens,
		logger:   logger,
	}
}

// Establish creates and persists an authenticated session for the user.
func (m *SessionManager) Establish(ctx context.Context, user *models.User) (*models.Session, error) {
	token, err := m.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Authenticated: true,
		User:          user.Snapshot(),
		Token:         token,
	}
	if err := m.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Current derives the session by re-reading storage. The path names the
// view being checked and feeds the page-view counter; counting is
// observability-only, so its failures are logged and swallowed.
//
// A corrupt session (authenticated without a user record, or with a
// token that no longer validates) is cleared here and reported as
// logged out, forcing a fresh login instead of an error screen.
func (m *SessionManager) Current(ctx context.Context, path string) (*models.Session, error) {
	m.trackPageView(ctx, path)

	session, err := m.sessions.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	if !session.Authenticated {
		return models.Anonymous(), nil
	}

	if reason := m.corruptReason(session); reason != "" {
		m.logger.Warn("clearing corrupt session", "reason", reason, "error", ErrCorruptSession)
		metrics.IncrementAuthFailure(reason)
		if err := m.sessions.ClearSession(ctx); err != nil {
			return nil, err
		}
		return models.Anonymous(), nil
	}

	return session, nil
}

// Logout clears the session record. The user registry and habit lists
// are left untouched so the user can log back in and resume.
func (m *SessionManager) Logout(ctx context.Context) error {
	return m.sessions.ClearSession(ctx)
}

// corruptReason reports why an authenticated session cannot be trusted,
// or "" if it can.
func (m *SessionManager) corruptReason(session *models.Session) string {
	if session.User == nil {
		return "missing_user"
	}
	if session.Token == "" {
		return "missing_token"
	}
	claims, err := m.tokens.Validate(session.Token)
	if err != nil {
		return "invalid_token"
	}
	if claims.UserID != session.User.ID {
		return "token_user_mismatch"
	}
	return ""
}

func (m *SessionManager) trackPageView(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if _, err := m.views.IncrementPageView(ctx, path); err != nil {
		m.logger.Warn("page view tracking failed", "path", path, "error", err)
		return
	}
	metrics.IncrementPageView(path)
}
