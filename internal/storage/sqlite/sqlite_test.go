package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "habitkit.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("u1", "Ann", "ann@x.com", "hash", 1700000000)
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("get by email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "ann@x.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != "u1" || got.PasswordHash != "hash" {
			t.Fatalf("GetUserByEmail = %+v, want user u1", got)
		}
	})

	t.Run("missing email returns nil without error", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "ghost@x.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("GetUserByEmail = %+v, want nil", got)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("u2", "Ann Again", "ann@x.com", "other", 1700000001)
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected error for duplicate email")
		}
	})

	t.Run("set premium", func(t *testing.T) {
		if err := store.SetPremium(ctx, "u1", true); err != nil {
			t.Fatalf("SetPremium failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if !got.IsPremium {
			t.Error("expected IsPremium=true after SetPremium")
		}

		if err := store.SetPremium(ctx, "ghost", true); err != storage.ErrNotFound {
			t.Errorf("SetPremium error = %v, want ErrNotFound", err)
		}
	})
}

func TestHabitStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateUser(ctx, models.NewUser("u1", "Ann", "ann@x.com", "h", 0)); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("empty list by default", func(t *testing.T) {
		habits, err := store.ListHabits(ctx, "u1")
		if err != nil {
			t.Fatalf("ListHabits failed: %v", err)
		}
		if len(habits) != 0 {
			t.Errorf("len = %d, want 0", len(habits))
		}
	})

	t.Run("save replaces the list and preserves order", func(t *testing.T) {
		habits := []models.Habit{
			{ID: 1, Name: "Run", Category: "Fitness", MVPGoal: "Shoes on", Streak: 3, Completed: true, Progress: 40, CreatedAt: 1700000000},
			{ID: 5, Name: "Read", Category: "Learning", MVPGoal: "One page"},
		}
		if err := store.SaveHabits(ctx, "u1", habits); err != nil {
			t.Fatalf("SaveHabits failed: %v", err)
		}

		got, err := store.ListHabits(ctx, "u1")
		if err != nil {
			t.Fatalf("ListHabits failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].ID != 1 || got[1].ID != 5 {
			t.Errorf("order = [%d %d], want [1 5]", got[0].ID, got[1].ID)
		}
		if got[0].Streak != 3 || !got[0].Completed || got[0].Progress != 40 {
			t.Errorf("habit fields lost: %+v", got[0])
		}

		if err := store.SaveHabits(ctx, "u1", got[:1]); err != nil {
			t.Fatalf("SaveHabits failed: %v", err)
		}
		got, err = store.ListHabits(ctx, "u1")
		if err != nil {
			t.Fatalf("ListHabits failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("len = %d after shrink, want 1", len(got))
		}
	})
}

func TestSessionStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("no row means logged out", func(t *testing.T) {
		session, err := store.GetSession(ctx)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if session.Authenticated {
			t.Errorf("GetSession = %+v, want anonymous", session)
		}
	})

	t.Run("save, reload, clear", func(t *testing.T) {
		saved := &models.Session{
			Authenticated: true,
			User:          &models.UserSnapshot{ID: "u1", Name: "Ann", Email: "ann@x.com", IsPremium: true},
			Token:         "tok",
		}
		if err := store.SaveSession(ctx, saved); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		got, err := store.GetSession(ctx)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if !got.Authenticated || got.User == nil || got.User.ID != "u1" || got.Token != "tok" {
			t.Errorf("GetSession = %+v, want saved session", got)
		}

		if err := store.ClearSession(ctx); err != nil {
			t.Fatalf("ClearSession failed: %v", err)
		}
		got, err = store.GetSession(ctx)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.Authenticated {
			t.Error("session still authenticated after clear")
		}
	})

	t.Run("entitlement cache", func(t *testing.T) {
		ent, err := store.GetEntitlement(ctx)
		if err != nil {
			t.Fatalf("GetEntitlement failed: %v", err)
		}
		if ent != nil {
			t.Errorf("GetEntitlement = %+v, want nil when uncached", ent)
		}

		if err := store.SaveEntitlement(ctx, models.Entitlement{IsPremium: true}); err != nil {
			t.Fatalf("SaveEntitlement failed: %v", err)
		}
		ent, err = store.GetEntitlement(ctx)
		if err != nil {
			t.Fatalf("GetEntitlement failed: %v", err)
		}
		if ent == nil || !ent.IsPremium {
			t.Errorf("GetEntitlement = %+v, want premium", ent)
		}
	})
}

func TestPageViewStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := store.IncrementPageView(ctx, "/dashboard")
		if err != nil {
			t.Fatalf("IncrementPageView failed: %v", err)
		}
		if count != want {
			t.Errorf("count = %d, want %d", count, want)
		}
	}

	views, err := store.PageViews(ctx)
	if err != nil {
		t.Fatalf("PageViews failed: %v", err)
	}
	if views["/dashboard"] != 3 {
		t.Errorf("views[/dashboard] = %d, want 3", views["/dashboard"])
	}
}
