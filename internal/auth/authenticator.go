// Package auth authenticates gathering owners and issues session tokens.
package auth

import (
	"context"

	"github.com/mmynk/nbang/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Password login is the only method today; the interface keeps the service
// layer independent of it.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
