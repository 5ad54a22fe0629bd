package identity

import (
	"context"
	"errors"

	"garagedesk/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
)

// Verifier turns a bearer token into the identity it was issued for.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)
}

// Directory looks accounts up by uid.
type Directory interface {
	LookupUser(ctx context.Context, uid string) (*models.Identity, error)
}

// Provider is a full identity backend.
type Provider interface {
	Verifier
	Directory
}
