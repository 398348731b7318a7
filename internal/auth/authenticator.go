package auth

import (
	"context"

	"github.com/mmynk/hisab/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// RegisterAnonymous creates a credential-less identity. The user can sync
	// but cannot sign back in once the token is lost.
	RegisterAnonymous(ctx context.Context) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup returns the user with the given ID, or nil if there is none.
	Lookup(ctx context.Context, id string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
