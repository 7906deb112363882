package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/habitkit/internal/auth"
	"github.com/mmynk/habitkit/internal/metrics"
	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/storage"
)

// ErrNotAuthenticated is returned by operations that require a logged-in
// user when no valid session exists.
var ErrNotAuthenticated = errors.New("not logged in")

// RegisterResult carries the established session plus the signal that a
// brand-new user should be sent through onboarding to create their
// first habit.
type RegisterResult struct {
	Session         *models.Session
	NeedsOnboarding bool
}

// AuthService implements the account lifecycle: registration, login,
// logout, session derivation and the premium upgrade.
type AuthService struct {
	authenticator auth.Authenticator
	sessions      *auth.SessionManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, sessions *auth.SessionManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new account, seeds an empty habit list for it,
// caches the free-tier entitlement flags and establishes the session.
//
// The steps touch separate storage keys with no transaction spanning
// them; a crash mid-way can leave a registered user without a session,
// which the next login repairs.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	s.logger.Info("Register request", "email", email)

	user, err := s.authenticator.Register(ctx, name, email, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		if errors.Is(err, auth.ErrEmailExists) {
			metrics.IncrementAuthFailure("duplicate_email")
		}
		return nil, err
	}

	// Seed the new user's habit list so the dashboard has a record to
	// read before the first habit is created.
	if err := s.store.SaveHabits(ctx, user.ID, []models.Habit{}); err != nil {
		return nil, err
	}

	// New accounts always start on the free tier.
	if err := s.store.SaveEntitlement(ctx, models.Entitlement{IsPremium: false}); err != nil {
		return nil, err
	}

	session, err := s.sessions.Establish(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return &RegisterResult{Session: session, NeedsOnboarding: true}, nil
}

// Login authenticates the user, refreshes the cached entitlement flags
// from the registry, and establishes the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	s.logger.Info("Login request", "email", email)

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		switch {
		case errors.Is(err, auth.ErrAccountNotFound):
			metrics.IncrementAuthFailure("account_not_found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			metrics.IncrementAuthFailure("invalid_credentials")
		}
		return nil, err
	}

	if err := s.store.SaveEntitlement(ctx, models.Entitlement{IsPremium: user.IsPremium}); err != nil {
		return nil, err
	}

	session, err := s.sessions.Establish(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID, "premium", user.IsPremium)
	return session, nil
}

// Logout clears the session only; the registry and habit lists survive
// so the user can log back in and resume.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// CurrentSession derives the session from storage for the given view
// path (feeding the page-view counter as a side effect).
func (s *AuthService) CurrentSession(ctx context.Context, path string) (*models.Session, error) {
	return s.sessions.Current(ctx, path)
}

// Upgrade flips the logged-in user to the premium tier: the registry
// entry, the cached entitlement flags and the session snapshot are all
// rewritten so the habit limit is lifted immediately.
func (s *AuthService) Upgrade(ctx context.Context) (*models.Session, error) {
	session, err := s.sessions.Current(ctx, "")
	if err != nil {
		return nil, err
	}
	if !session.Authenticated {
		return nil, ErrNotAuthenticated
	}

	if err := s.store.SetPremium(ctx, session.User.ID, true); err != nil {
		return nil, err
	}
	if err := s.store.SaveEntitlement(ctx, models.Entitlement{IsPremium: true}); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, session.User.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, storage.ErrNotFound
	}

	refreshed, err := s.sessions.Establish(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User upgraded to premium", "user_id", user.ID)
	return refreshed, nil
}
