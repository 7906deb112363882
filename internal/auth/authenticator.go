package auth

import (
	"context"

	"github.com/mmynk/habitkit/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given identity and
	// credential. The credential format depends on the implementation
	// (e.g. password, OAuth token, etc.)
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, name, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user
	// if successful. Failures distinguish an unknown account
	// (ErrAccountNotFound) from a bad credential (ErrInvalidCredentials)
	// so the caller can offer the right recovery flow.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	// For passwords: check length, complexity, etc.
	ValidateCredential(credential string) error
}
