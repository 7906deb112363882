// Package habit implements the pure habit-state logic: creation with
// entitlement-gated limits, completion toggling, and aggregate
// statistics. Functions here never touch storage; they map an input
// list to an output list so they can be tested without any backend.
package habit

import (
	"errors"
	"fmt"

	"github.com/mmynk/habitkit/internal/models"
)

var (
	// ErrLimitReached means a free-tier user already owns the maximum
	// number of habits. Callers should offer the upgrade flow.
	ErrLimitReached = errors.New("habit limit reached, upgrade to premium for unlimited habits")

	// ErrHabitNotFound means the toggled habit ID does not exist in
	// the user's list.
	ErrHabitNotFound = errors.New("habit not found")
)

// ValidationError reports which input field failed validation so the
// caller can show the message inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Input is the user-supplied portion of a new habit.
type Input struct {
	Name     string
	Category string
	MVPGoal  string
}

// ValidateInput checks the creation form rules. The first offending
// field is reported; there is at most one error at a time.
func ValidateInput(in Input) error {
	if len(in.Name) < 2 {
		return &ValidationError{Field: "name", Message: "habit name must be at least 2 characters"}
	}
	if in.Category == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	if len(in.MVPGoal) < 3 {
		return &ValidationError{Field: "mvpGoal", Message: "MVP goal must be at least 3 characters"}
	}
	return nil
}

// NextID assigns the next habit ID as max(existing)+1, starting at 1
// for an empty list. IDs are unique per user and never reused while the
// highest habit remains (habits are never deleted in-app).
func NextID(existing []models.Habit) int {
	maxID := 0
	for _, h := range existing {
		if h.ID > maxID {
			maxID = h.ID
		}
	}
	return maxID + 1
}

// Create validates the input, enforces the entitlement limit, and
// returns the extended list plus the new habit.
//
// The limit check runs BEFORE the record is constructed: a rejected
// create must leave no trace. New habits start with streak 0, not
// completed, and progress 0; progress is an independent field and is
// never recomputed from the streak afterwards.
func Create(existing []models.Habit, in Input, ent models.Entitlement, createdAt int64) ([]models.Habit, models.Habit, error) {
	if err := ValidateInput(in); err != nil {
		return nil, models.Habit{}, err
	}

	if !ent.Allows(len(existing)) {
		return nil, models.Habit{}, ErrLimitReached
	}

	h := models.Habit{
		ID:        NextID(existing),
		Name:      in.Name,
		Category:  in.Category,
		MVPGoal:   in.MVPGoal,
		Streak:    0,
		Completed: false,
		Progress:  0,
		CreatedAt: createdAt,
	}

	updated := make([]models.Habit, 0, len(existing)+1)
	updated = append(updated, existing...)
	updated = append(updated, h)
	return updated, h, nil
}

// Toggle flips the completion flag of the habit with the given ID and
// adjusts its streak: +1 when marking complete, -1 when unmarking.
// The streak clamps at zero on unmark; repeated unmarking cannot drive
// it negative. An unknown ID is an error, not a silent no-op.
//
// Toggling twice returns both the flag and the streak to their original
// values for any state reachable through Create and Toggle.
func Toggle(existing []models.Habit, id int) ([]models.Habit, models.Habit, error) {
	updated := make([]models.Habit, len(existing))
	copy(updated, existing)

	for i := range updated {
		if updated[i].ID != id {
			continue
		}
		if updated[i].Completed {
			updated[i].Completed = false
			if updated[i].Streak > 0 {
				updated[i].Streak--
			}
		} else {
			updated[i].Completed = true
			updated[i].Streak++
		}
		return updated, updated[i], nil
	}

	return nil, models.Habit{}, ErrHabitNotFound
}
