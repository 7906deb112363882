// Package cli implements the habits command-line interface. Each
// command maps to one view of the original application (dashboard,
// login, ...) and passes through the same authorization guard, so the
// CLI exercises exactly the session and entitlement rules the services
// enforce.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/habitkit/internal/auth"
	"github.com/mmynk/habitkit/internal/config"
	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/service"
	"github.com/mmynk/habitkit/internal/storage"
	"github.com/mmynk/habitkit/internal/storage/localstore"
	"github.com/mmynk/habitkit/internal/storage/sqlite"
)

// App wires the storage backend, auth stack and services together for
// the CLI commands.
type App struct {
	cfg    *config.Config
	store  storage.Store
	logger *slog.Logger

	Auth   *service.AuthService
	Habits *service.HabitService
	Guard  *auth.Guard
}

// NewApp builds the application from the given config.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err = sqlite.New(cfg.Storage.Path)
	default:
		store, err = localstore.New(cfg.Storage.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessions := auth.NewSessionManager(store, store, jwtManager, logger)
	authenticator := auth.NewPasswordAuthenticator(store)

	return &App{
		cfg:    cfg,
		store:  store,
		logger: logger,
		Auth:   service.NewAuthService(authenticator, sessions, store, logger),
		Habits: service.NewHabitService(store, logger),
		Guard:  auth.NewGuard(sessions),
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.store.Close()
}

// requireSession routes the command through the guard as a visit to the
// given view path. Commands behind protected paths fail with a login
// hint when the guard redirects.
func (a *App) requireSession(ctx context.Context, path string) (*models.Session, error) {
	session, decision, err := a.Guard.Check(ctx, path)
	if err != nil {
		return nil, err
	}
	if decision.Action == auth.Redirect && decision.Target == auth.PathLogin {
		return nil, fmt.Errorf("please log in first: habits login")
	}
	return session, nil
}
