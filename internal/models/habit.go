package models

// Habit represents one tracked habit with a minimum-viable-progress goal.
type Habit struct {
	// ID is unique per user and assigned monotonically as max(existing)+1.
	ID int `json:"id"`

	// Name is the habit's display name (e.g. "Morning run").
	Name string `json:"name"`

	// Category groups habits by type (e.g. "Fitness", "Learning").
	Category string `json:"category"`

	// MVPGoal is the minimum viable action that counts as a win for
	// one day (e.g. "Put on running shoes").
	MVPGoal string `json:"mvpGoal"`

	// Streak counts consecutive completions. It never goes below zero.
	Streak int `json:"streak"`

	// Completed is today's completion flag, flipped by the toggle
	// operation. There is no automatic daily reset.
	Completed bool `json:"completed"`

	// Progress is a percentage (0-100) set at creation and adjusted
	// manually. It is deliberately NOT derived from Streak: the two
	// fields are independent.
	Progress int `json:"progress"`

	// CreatedAt is the Unix timestamp when the habit was created.
	CreatedAt int64 `json:"createdAt"`
}
