package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/habitkit/internal/auth"
	"github.com/mmynk/habitkit/internal/storage/localstore"
)

func newTestAuthService(t *testing.T) (*AuthService, *localstore.LocalStore) {
	t.Helper()
	store, err := localstore.New(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	logger := slog.New(slog.DiscardHandler)
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	sessions := auth.NewSessionManager(store, store, tokens, logger)
	authenticator := auth.NewPasswordAuthenticator(store)
	return NewAuthService(authenticator, sessions, store, logger), store
}

func TestRegisterFlow(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "Ann", "ann@x.com", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !result.NeedsOnboarding {
		t.Error("expected a fresh registration to need onboarding")
	}
	session := result.Session
	if !session.Authenticated || session.User == nil || session.User.Email != "ann@x.com" {
		t.Fatalf("session = %+v, want authenticated ann@x.com", session)
	}
	if session.User.IsPremium {
		t.Error("new accounts must start on the free tier")
	}

	// Registration seeds an empty habit list and the free entitlement.
	habits, err := store.ListHabits(ctx, session.User.ID)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("len(habits) = %d, want 0", len(habits))
	}
	ent, err := store.GetEntitlement(ctx)
	if err != nil {
		t.Fatalf("GetEntitlement failed: %v", err)
	}
	if ent == nil || ent.IsPremium {
		t.Errorf("entitlement = %+v, want cached free tier", ent)
	}

	t.Run("duplicate email leaves the registry unchanged", func(t *testing.T) {
		_, err := svc.Register(ctx, "Ann Again", "ann@x.com", "different1")
		if !errors.Is(err, auth.ErrEmailExists) {
			t.Errorf("Register error = %v, want ErrEmailExists", err)
		}
		user, err := store.GetUserByEmail(ctx, "ann@x.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user == nil || user.Name != "Ann" {
			t.Errorf("registry entry = %+v, want the original Ann", user)
		}
	})
}

func TestLoginFlow(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ann", "ann@x.com", "secret123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	t.Run("valid credentials re-establish the session", func(t *testing.T) {
		session, err := svc.Login(ctx, "ann@x.com", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if !session.Authenticated || session.User == nil || session.User.Name != "Ann" {
			t.Errorf("session = %+v, want authenticated Ann", session)
		}

		current, err := svc.CurrentSession(ctx, auth.PathDashboard)
		if err != nil {
			t.Fatalf("CurrentSession failed: %v", err)
		}
		if !current.Authenticated {
			t.Error("expected the login to persist")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@x.com", "secret123")
		if !errors.Is(err, auth.ErrAccountNotFound) {
			t.Errorf("Login error = %v, want ErrAccountNotFound", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ann@x.com", "wrongpass")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestUpgrade(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		_, err := svc.Upgrade(ctx)
		if !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("Upgrade error = %v, want ErrNotAuthenticated", err)
		}
	})

	result, err := svc.Register(ctx, "Ann", "ann@x.com", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	userID := result.Session.User.ID

	t.Run("rewrites registry, cache and session", func(t *testing.T) {
		session, err := svc.Upgrade(ctx)
		if err != nil {
			t.Fatalf("Upgrade failed: %v", err)
		}
		if session.User == nil || !session.User.IsPremium {
			t.Errorf("session = %+v, want premium snapshot", session.User)
		}

		user, err := store.GetUserByID(ctx, userID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if user == nil || !user.IsPremium {
			t.Errorf("registry entry = %+v, want premium", user)
		}

		ent, err := store.GetEntitlement(ctx)
		if err != nil {
			t.Fatalf("GetEntitlement failed: %v", err)
		}
		if ent == nil || !ent.IsPremium {
			t.Errorf("entitlement cache = %+v, want premium", ent)
		}
	})

	t.Run("premium survives logout and login", func(t *testing.T) {
		if err := svc.Logout(ctx); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		session, err := svc.Login(ctx, "ann@x.com", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if !session.User.IsPremium {
			t.Error("premium flag lost across logout/login")
		}
	})
}
