package habit

import (
	"math"

	"github.com/mmynk/habitkit/internal/models"
)

// Stats is the dashboard summary over one user's habit list.
type Stats struct {
	// Total is the number of habits.
	Total int

	// CompletedToday is the number of habits currently marked complete.
	CompletedToday int

	// LongestStreak is the maximum streak across all habits, floored
	// at zero.
	LongestStreak int

	// AverageProgress is the rounded mean of the progress percentages,
	// zero for an empty list.
	AverageProgress int
}

// ComputeStats aggregates the dashboard statistics for a habit list.
func ComputeStats(habits []models.Habit) Stats {
	stats := Stats{Total: len(habits)}

	if len(habits) == 0 {
		return stats
	}

	progressSum := 0
	for _, h := range habits {
		if h.Completed {
			stats.CompletedToday++
		}
		if h.Streak > stats.LongestStreak {
			stats.LongestStreak = h.Streak
		}
		progressSum += h.Progress
	}

	stats.AverageProgress = int(math.Round(float64(progressSum) / float64(len(habits))))
	return stats
}
