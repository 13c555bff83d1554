package user

import (
	"context"
	"errors"
	"time"

	"storyshare/internal/auth"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user: not found")

// User is the durable record for one human, addressable independently
// of which OAuth provider they used to log in. Contact fields are
// user-edited after login and are never touched by provider re-logins.
type User struct {
	ID              string
	DisplayName     string
	Email           string
	Phone           string
	Location        string
	ProfileImageURL string
	CreatedAt       time.Time
}

// Store persists users and their provider account links.
type Store interface {
	// FindOrCreate returns the user owning the profile's provider
	// account, creating user and link on first login. Existing users
	// are returned exactly as stored.
	FindOrCreate(ctx context.Context, profile *auth.Profile) (*User, error)

	FindByID(ctx context.Context, id string) (*User, error)

	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePhone(ctx context.Context, id, phone string) error
	UpdateLocation(ctx context.Context, id, location string) error
}
