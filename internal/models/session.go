package models

// Session is the single "current session" record for this device.
//
// Invariant: Authenticated == true implies User != nil. A session that
// violates the invariant is corrupt; the session manager clears it and
// requires a fresh login rather than surfacing an error to the user.
type Session struct {
	// Authenticated reports whether a user is currently logged in.
	Authenticated bool `json:"authenticated"`

	// User is the snapshot of the logged-in user, nil when logged out.
	User *UserSnapshot `json:"user"`

	// Token is the signed session token issued at login. A session
	// whose token no longer validates is treated the same as a
	// corrupt session.
	Token string `json:"token,omitempty"`
}

// Valid reports whether the session satisfies its invariant.
// It says nothing about token freshness; that is the session
// manager's job.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	return !s.Authenticated || s.User != nil
}

// Anonymous returns the logged-out session.
func Anonymous() *Session {
	return &Session{Authenticated: false, User: nil}
}
