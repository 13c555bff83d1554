package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storyshare/internal/auth/provider"
	"storyshare/internal/logger"
	"storyshare/internal/session"
	"storyshare/internal/user"
)

// failures of the handshake itself send the user back to the home page
// to re-initiate; they are never surfaced raw
const failureRedirect = "/"

// providerTimeout bounds every outbound provider call so a stalled
// code exchange or profile fetch cannot hang the request.
const providerTimeout = 10 * time.Second

type Handler struct {
	providers *provider.Registry
	sessions  *session.Manager
	users     user.Store
}

func NewHandler(
	registry *provider.Registry,
	sessions *session.Manager,
	users user.Store,
) *Handler {
	return &Handler{
		providers: registry,
		sessions:  sessions,
		users:     users,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/:provider", h.login)
	r.GET("/auth/:provider/callback", h.callback)
	r.GET("/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	if !validateState(c) {
		logger.Warn("oauth callback state mismatch", map[string]any{
			"provider": providerName,
		})
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	// provider sent the user back with an error instead of a code
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", map[string]any{
			"provider": providerName,
		})
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), providerTimeout)
	defer cancel()

	profile, err := p.Exchange(ctx, code, getPKCEVerifier(c))
	if err != nil {
		logger.Warn("oauth exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	u, err := h.users.FindOrCreate(c.Request.Context(), profile)
	if err != nil {
		logger.Error("failed to resolve user", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	if err := h.sessions.Establish(c.Request.Context(), c.Writer, u.ID); err != nil {
		logger.Error("failed to establish session", map[string]any{
			"error": err.Error(),
		})
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	logger.Info("login succeeded", map[string]any{
		"provider": providerName,
		"user_id":  u.ID,
	})

	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) logout(c *gin.Context) {
	// idempotent: a guest hitting /logout just lands back home
	h.sessions.Terminate(c.Request.Context(), c.Writer, c.Request)
	c.Redirect(http.StatusFound, failureRedirect)
}
