package session

import (
	"context"
	"net/http"
	"time"

	"storyshare/internal/logger"
)

const defaultTTL = 24 * time.Hour

// Manager owns the session lifecycle: establishing a session for an
// authenticated user, resolving the user behind an inbound request, and
// tearing a session down. Handlers and middleware go through it rather
// than touching the store or cookies directly.
type Manager struct {
	store      Store
	signer     *Signer
	ttl        time.Duration
	cookieOpts CookieOptions
}

func NewManager(store Store, secret string, opts CookieOptions) *Manager {
	return &Manager{
		store:      store,
		signer:     NewSigner(secret),
		ttl:        defaultTTL,
		cookieOpts: opts,
	}
}

// Establish creates a session bound to userID and sets the signed
// session cookie on the response.
func (m *Manager) Establish(
	ctx context.Context,
	w http.ResponseWriter,
	userID string,
) error {
	token, err := GenerateToken()
	if err != nil {
		return err
	}

	now := time.Now()
	s := Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx, s); err != nil {
		return err
	}

	SetCookie(w, m.signer.Sign(token), s.ExpiresAt, m.cookieOpts)
	return nil
}

// Resolve returns the user id bound to the request's session cookie.
// A missing cookie, bad signature, unknown token, or expired session all
// resolve to ("", false) — unauthenticated is a normal outcome here.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	token, ok := m.signer.Verify(cookie.Value)
	if !ok {
		return "", false
	}

	s, err := m.store.Get(ctx, token)
	if err != nil {
		logger.Warn("session lookup failed", map[string]any{
			"error": err.Error(),
		})
		return "", false
	}
	if s == nil {
		return "", false
	}

	if time.Now().After(s.ExpiresAt) {
		_ = m.store.Delete(ctx, token)
		return "", false
	}

	return s.UserID, true
}

// Terminate deletes the request's session server-side and clears the
// cookie. Terminating an absent or already-terminated session is a no-op.
func (m *Manager) Terminate(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
) {
	cookie, err := r.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		if token, ok := m.signer.Verify(cookie.Value); ok {
			// best-effort: the cookie is cleared either way
			_ = m.store.Delete(ctx, token)
		}
	}

	ClearCookie(w, m.cookieOpts)
}
