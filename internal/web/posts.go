package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storyshare/internal/logger"
	"storyshare/internal/middleware"
	"storyshare/internal/post"
)

func (h *Handler) registerPostRoutes(r *gin.Engine) {
	r.GET("/posts", h.listPosts)
	r.GET("/posts/show/:id", h.showPost)

	authed := r.Group("/posts", middleware.RequireAuth())
	authed.GET("/my", h.myPosts)
	authed.GET("/add", h.addPostForm)
	authed.POST("", h.createPost)
	authed.GET("/edit/:id", h.editPostForm)
	authed.POST("/edit/:id", h.updatePost)
	authed.POST("/delete/:id", h.deletePost)
	authed.POST("/comment/:id", h.addComment)
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.ListPublic(c.Request.Context())
	if err != nil {
		h.serverError(c, "list posts", err)
		return
	}

	u, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "posts_index.tmpl", gin.H{
		"user":  u,
		"posts": posts,
	})
}

func (h *Handler) showPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, post.ErrNotFound) {
		c.Redirect(http.StatusFound, "/posts")
		return
	}
	if err != nil {
		h.serverError(c, "show post", err)
		return
	}

	u, ok := middleware.CurrentUser(c)

	// private posts are visible to their owner only
	if p.Status == post.StatusPrivate && (!ok || u.ID != p.UserID) {
		c.Redirect(http.StatusFound, "/posts")
		return
	}

	c.HTML(http.StatusOK, "posts_show.tmpl", gin.H{
		"user": u,
		"post": p,
	})
}

func (h *Handler) myPosts(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	posts, err := h.posts.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		h.serverError(c, "list my posts", err)
		return
	}

	c.HTML(http.StatusOK, "posts_index.tmpl", gin.H{
		"user":  u,
		"posts": posts,
		"own":   true,
	})
}

func (h *Handler) addPostForm(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "posts_add.tmpl", gin.H{"user": u})
}

func postStatus(c *gin.Context) string {
	if c.PostForm("status") == post.StatusPrivate {
		return post.StatusPrivate
	}
	return post.StatusPublic
}

func (h *Handler) createPost(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	id, err := h.posts.Create(c.Request.Context(), post.Post{
		UserID:        u.ID,
		Title:         c.PostForm("title"),
		Body:          c.PostForm("body"),
		Status:        postStatus(c),
		AllowComments: ParseCheckbox(c.PostForm("allowComments")),
	})
	if err != nil {
		h.serverError(c, "create post", err)
		return
	}

	c.Redirect(http.StatusFound, "/posts/show/"+id)
}

func (h *Handler) editPostForm(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, post.ErrNotFound) {
		c.Redirect(http.StatusFound, "/posts")
		return
	}
	if err != nil {
		h.serverError(c, "edit post", err)
		return
	}

	if p.UserID != u.ID {
		c.Redirect(http.StatusFound, "/posts")
		return
	}

	c.HTML(http.StatusOK, "posts_edit.tmpl", gin.H{
		"user": u,
		"post": p,
	})
}

func (h *Handler) updatePost(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	// ownership is enforced by the store predicate, not the URL id
	err := h.posts.Update(c.Request.Context(), post.Post{
		ID:            c.Param("id"),
		UserID:        u.ID,
		Title:         c.PostForm("title"),
		Body:          c.PostForm("body"),
		Status:        postStatus(c),
		AllowComments: ParseCheckbox(c.PostForm("allowComments")),
	})
	if errors.Is(err, post.ErrNotFound) {
		c.Redirect(http.StatusFound, "/posts")
		return
	}
	if err != nil {
		h.serverError(c, "update post", err)
		return
	}

	c.Redirect(http.StatusFound, "/posts/show/"+c.Param("id"))
}

func (h *Handler) deletePost(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	err := h.posts.Delete(c.Request.Context(), c.Param("id"), u.ID)
	if err != nil && !errors.Is(err, post.ErrNotFound) {
		h.serverError(c, "delete post", err)
		return
	}

	c.Redirect(http.StatusFound, "/posts/my")
}

func (h *Handler) addComment(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	postID := c.Param("id")

	err := h.posts.AddComment(
		c.Request.Context(),
		postID,
		u.ID,
		c.PostForm("commentBody"),
	)
	if errors.Is(err, post.ErrNotFound) || errors.Is(err, post.ErrCommentsClosed) {
		c.Redirect(http.StatusFound, "/posts")
		return
	}
	if err != nil {
		h.serverError(c, "add comment", err)
		return
	}

	c.Redirect(http.StatusFound, "/posts/show/"+postID)
}

func (h *Handler) serverError(c *gin.Context, op string, err error) {
	logger.Error(op+" failed", map[string]any{
		"error": err.Error(),
	})
	c.String(http.StatusInternalServerError, "server error")
}
