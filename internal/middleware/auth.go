package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyshare/internal/logger"
	"storyshare/internal/session"
	"storyshare/internal/user"
)

// gin context key for the resolved identity
const identityKey = "currentUser"

// CurrentUser extracts the authenticated user attached by
// ResolveIdentity. ok is false for guest requests.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok && u != nil
}

// Auth resolves the session cookie into an identity once per request.
// Guards and handlers read the result from the gin context; no global
// current-user state exists anywhere.
type Auth struct {
	sessions *session.Manager
	users    user.Store
}

func NewAuth(sessions *session.Manager, users user.Store) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// ResolveIdentity attaches the resolved user, if any, and always lets
// the request continue. Being a guest is not an error.
func (a *Auth) ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := a.sessions.Resolve(ctx, c.Request)
		if !ok {
			c.Next()
			return
		}

		u, err := a.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				// session bound to a vanished user: clear it and
				// continue as guest
				a.sessions.Terminate(ctx, c.Writer, c.Request)
				c.Next()
				return
			}

			logger.Error("identity lookup failed", map[string]any{
				"error": err.Error(),
			})
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(identityKey, u)
		c.Next()
	}
}

// RequireAuth redirects unauthenticated requests to the home page; the
// wrapped handler never runs for them.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGuest is the inverse: an already-authenticated user has no
// business on guest-only entry points and is sent to their profile.
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Redirect(http.StatusFound, "/profile")
			c.Abort()
			return
		}
		c.Next()
	}
}
