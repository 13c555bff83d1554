package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyshare/internal/logger"
	"storyshare/internal/middleware"
	"storyshare/internal/post"
	"storyshare/internal/user"
)

// Handler serves the HTML surface: pages, profile, and posts.
type Handler struct {
	users user.Store
	posts post.Store
}

func NewHandler(users user.Store, posts post.Store) *Handler {
	return &Handler{users: users, posts: posts}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", middleware.RequireGuest(), h.home)
	r.GET("/about", h.about)

	authed := r.Group("/", middleware.RequireAuth())
	authed.GET("/profile", h.profile)
	authed.POST("/addEmail", h.addEmail)
	authed.POST("/addPhone", h.addPhone)
	authed.POST("/addLocation", h.addLocation)

	h.registerPostRoutes(r)
}

func (h *Handler) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", gin.H{})
}

func (h *Handler) about(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "about.tmpl", gin.H{"user": u})
}

func (h *Handler) profile(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "profile.tmpl", gin.H{"user": u})
}

// the three contact-field updates are structurally identical: one form
// field, overwritten on the caller's own record only
func (h *Handler) addEmail(c *gin.Context) {
	h.updateField(c, "email", h.users.UpdateEmail)
}

func (h *Handler) addPhone(c *gin.Context) {
	h.updateField(c, "phone", h.users.UpdatePhone)
}

func (h *Handler) addLocation(c *gin.Context) {
	h.updateField(c, "location", h.users.UpdateLocation)
}

func (h *Handler) updateField(
	c *gin.Context,
	field string,
	update func(ctx context.Context, id, value string) error,
) {
	u, _ := middleware.CurrentUser(c)

	value := c.PostForm(field)

	if err := update(c.Request.Context(), u.ID, value); err != nil {
		logger.Error("profile update failed", map[string]any{
			"field": field,
			"error": err.Error(),
		})
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}
