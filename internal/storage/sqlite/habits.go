package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/habitkit/internal/models"
)

// ListHabits returns the user's habit list ordered by habit ID.
// A user with no stored habits gets an empty slice.
func (s *SQLiteStore) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, mvp_goal, streak, completed, progress, created_at
		FROM habits
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(
			&h.ID,
			&h.Name,
			&h.Category,
			&h.MVPGoal,
			&h.Streak,
			&h.Completed,
			&h.Progress,
			&h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

// SaveHabits replaces the user's habit list in one transaction, keeping
// the whole-list write semantics of the storage contract.
func (s *SQLiteStore) SaveHabits(ctx context.Context, userID string, habits []models.Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM habits WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	for i := range habits {
		h := &habits[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO habits (user_id, id, name, category, mvp_goal, streak, completed, progress, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, userID, h.ID, h.Name, h.Category, h.MVPGoal, h.Streak, h.Completed, h.Progress, h.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert habit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
