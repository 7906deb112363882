package models

// User represents a registered user account in the registry.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique, case-sensitive,
	// enforced at registration).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	PasswordHash string `json:"password"`

	// IsPremium reports whether the user has upgraded to the premium
	// tier, which lifts the habit-count limit.
	IsPremium bool `json:"isPremium"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"dateCreated"`
}

// Snapshot returns the reduced view of the user that is safe to carry
// inside a Session. It never includes the password hash.
func (u *User) Snapshot() *UserSnapshot {
	return &UserSnapshot{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsPremium: u.IsPremium,
	}
}

// UserSnapshot is the session-facing view of a User.
type UserSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsPremium bool   `json:"isPremium"`
}

// NewUser creates a user with the given identity and hashed credential.
// New accounts always start on the free tier.
func NewUser(id, name, email, passwordHash string, createdAt int64) *User {
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsPremium:    false,
		CreatedAt:    createdAt,
	}
}
