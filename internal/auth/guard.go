package auth

import (
	"context"

	"github.com/mmynk/habitkit/internal/models"
)

// Well-known view paths.
const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
)

// publicPaths is the fixed allow-list of views that bypass the auth check.
var publicPaths = map[string]bool{
	PathHome:     true,
	PathLogin:    true,
	PathRegister: true,
}

// Action is the outcome of a guard decision.
type Action int

const (
	// Render means the requested view may be shown as-is.
	Render Action = iota
	// Redirect means the caller must navigate to Decision.Target instead.
	Redirect
)

// Decision is the result of applying the authorization policy to one
// requested path.
type Decision struct {
	Action Action

	// Target is the path to navigate to when Action is Redirect.
	Target string

	// ReturnTo preserves the originally requested path across a
	// redirect to login, so a successful login can send the user back.
	ReturnTo string
}

// Decide applies the authorization policy to a requested path. It is a
// pure function of (path, session) with no side effects; this one
// policy is consumed by every protected view so the rules cannot drift
// between copies.
//
// Rules:
//   - public paths always render
//   - anything else without an authenticated session redirects to
//     login, carrying the requested path
//   - the login view with an authenticated session redirects to the
//     dashboard
func Decide(path string, session *models.Session) Decision {
	authenticated := session != nil && session.Authenticated

	if authenticated && path == PathLogin {
		return Decision{Action: Redirect, Target: PathDashboard}
	}
	if publicPaths[path] {
		return Decision{Action: Render}
	}
	if !authenticated {
		return Decision{Action: Redirect, Target: PathLogin, ReturnTo: path}
	}
	return Decision{Action: Render}
}

// Guard gates access to protected views. It combines session derivation
// (with its page-view side effect) and the pure Decide policy.
type Guard struct {
	sessions *SessionManager
}

// NewGuard creates a guard over the given session manager.
func NewGuard(sessions *SessionManager) *Guard {
	return &Guard{sessions: sessions}
}

// Check derives the current session for the requested path and applies
// the policy. The returned session is valid regardless of the decision.
func (g *Guard) Check(ctx context.Context, path string) (*models.Session, Decision, error) {
	session, err := g.sessions.Current(ctx, path)
	if err != nil {
		return nil, Decision{}, err
	}
	return session, Decide(path, session), nil
}
