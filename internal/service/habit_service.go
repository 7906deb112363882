package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/habitkit/internal/habit"
	"github.com/mmynk/habitkit/internal/metrics"
	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/storage"
)

// ErrAlreadyOnboarded is returned when onboarding runs for a user who
// already has habits.
var ErrAlreadyOnboarded = errors.New("first habit already created")

// HabitService applies the pure habit engine to a user's persisted list.
// Every operation loads the list, transforms it in memory, and writes
// it back as one unit.
type HabitService struct {
	store  storage.Store
	logger *slog.Logger

	// now is a test seam for habit creation timestamps.
	now func() int64
}

// NewHabitService creates a new habit service over the given store.
func NewHabitService(store storage.Store, logger *slog.Logger) *HabitService {
	return &HabitService{
		store:  store,
		logger: logger,
		now:    func() int64 { return time.Now().Unix() },
	}
}

// entitlement resolves the user's entitlement from the cached flags,
// falling back to the registry, and finally to the session snapshot if
// the registry record is unreachable.
func (s *HabitService) entitlement(ctx context.Context, user *models.UserSnapshot) (models.Entitlement, error) {
	cached, err := s.store.GetEntitlement(ctx)
	if err != nil {
		return models.Entitlement{}, err
	}
	if cached != nil {
		return *cached, nil
	}

	registered, err := s.store.GetUserByID(ctx, user.ID)
	if err != nil {
		return models.Entitlement{}, err
	}
	if registered != nil {
		return models.Entitlement{IsPremium: registered.IsPremium}, nil
	}
	return models.Entitlement{IsPremium: user.IsPremium}, nil
}

// Create validates and appends a new habit for the user, enforcing the
// entitlement limit before anything is constructed or written.
func (s *HabitService) Create(ctx context.Context, user *models.UserSnapshot, in habit.Input) (models.Habit, error) {
	existing, err := s.store.ListHabits(ctx, user.ID)
	if err != nil {
		return models.Habit{}, err
	}

	ent, err := s.entitlement(ctx, user)
	if err != nil {
		return models.Habit{}, err
	}

	updated, created, err := habit.Create(existing, in, ent, s.now())
	if err != nil {
		if errors.Is(err, habit.ErrLimitReached) {
			s.logger.Info("Habit limit reached", "user_id", user.ID, "count", len(existing))
			metrics.IncrementHabitOp("create", "rejected")
		}
		return models.Habit{}, err
	}

	if err := s.store.SaveHabits(ctx, user.ID, updated); err != nil {
		return models.Habit{}, err
	}

	s.logger.Info("Habit created", "user_id", user.ID, "habit_id", created.ID, "name", created.Name)
	metrics.IncrementHabitOp("create", "ok")
	return created, nil
}

// Onboard creates the user's very first habit. It refuses to run for a
// user who already has habits, so a replayed onboarding flow cannot
// clobber an existing list.
func (s *HabitService) Onboard(ctx context.Context, user *models.UserSnapshot, in habit.Input) (models.Habit, error) {
	existing, err := s.store.ListHabits(ctx, user.ID)
	if err != nil {
		return models.Habit{}, err
	}
	if len(existing) > 0 {
		return models.Habit{}, ErrAlreadyOnboarded
	}
	return s.Create(ctx, user, in)
}

// Toggle flips completion of one habit and persists the adjusted list.
func (s *HabitService) Toggle(ctx context.Context, userID string, habitID int) (models.Habit, error) {
	existing, err := s.store.ListHabits(ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}

	updated, toggled, err := habit.Toggle(existing, habitID)
	if err != nil {
		metrics.IncrementHabitOp("toggle", "rejected")
		return models.Habit{}, err
	}

	if err := s.store.SaveHabits(ctx, userID, updated); err != nil {
		return models.Habit{}, err
	}

	s.logger.Info("Habit toggled",
		"user_id", userID,
		"habit_id", toggled.ID,
		"completed", toggled.Completed,
		"streak", toggled.Streak,
	)
	metrics.IncrementHabitOp("toggle", "ok")
	return toggled, nil
}

// List returns the user's habits.
func (s *HabitService) List(ctx context.Context, userID string) ([]models.Habit, error) {
	return s.store.ListHabits(ctx, userID)
}

// Stats computes the dashboard summary for the user's habits.
func (s *HabitService) Stats(ctx context.Context, userID string) (habit.Stats, error) {
	habits, err := s.store.ListHabits(ctx, userID)
	if err != nil {
		return habit.Stats{}, err
	}
	return habit.ComputeStats(habits), nil
}
