package models

// FreeHabitLimit is the maximum number of habits a free-tier user may own.
const FreeHabitLimit = 5

// Entitlement is the premium/free status controlling the habit-count
// limit. It is derived from the owning User (or the cached flags in
// storage), never stored as an independent record of truth.
type Entitlement struct {
	IsPremium bool
}

// HabitLimit returns the maximum habit count for this entitlement and
// whether the count is bounded at all. Premium users are unbounded.
func (e Entitlement) HabitLimit() (limit int, bounded bool) {
	if e.IsPremium {
		return 0, false
	}
	return FreeHabitLimit, true
}

// Allows reports whether a user with this entitlement may create one
// more habit given their current count.
func (e Entitlement) Allows(currentCount int) bool {
	limit, bounded := e.HabitLimit()
	return !bounded || currentCount < limit
}
