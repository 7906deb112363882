package habit

import (
	"testing"

	"github.com/mmynk/habitkit/internal/models"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   Stats
	}{
		{
			name:   "empty list is all zeros",
			habits: nil,
			want:   Stats{Total: 0, CompletedToday: 0, LongestStreak: 0, AverageProgress: 0},
		},
		{
			name: "mixed list",
			habits: []models.Habit{
				{Streak: 3, Completed: true, Progress: 60},
				{Streak: 5, Completed: true, Progress: 80},
				{Streak: 0, Completed: false, Progress: 30},
			},
			want: Stats{Total: 3, CompletedToday: 2, LongestStreak: 5, AverageProgress: 57},
		},
		{
			name: "average progress rounds half up",
			habits: []models.Habit{
				{Progress: 50},
				{Progress: 25},
			},
			want: Stats{Total: 2, AverageProgress: 38},
		},
		{
			name: "longest streak floors at zero",
			habits: []models.Habit{
				// A negative streak can only come from data written by
				// an older version; the floor keeps it out of the stats.
				{Streak: -2},
			},
			want: Stats{Total: 1, LongestStreak: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.habits)
			if got != tt.want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
