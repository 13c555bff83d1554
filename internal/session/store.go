package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session.
// It intentionally stores only an identity pointer, not auth state.
type Session struct {
	Token     string    // unique session token, also the store key
	UserID    string    // references users.id
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) for a missing session: unknown tokens are a
// normal outcome, not an error. Delete must be idempotent.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
