package post

import (
	"context"
	"errors"
	"time"
)

const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

var (
	// ErrNotFound covers both a missing post and a mutation attempted by
	// a non-owner; callers get the same answer either way.
	ErrNotFound = errors.New("post: not found")

	// ErrCommentsClosed is returned when commenting on a post whose
	// owner disabled comments.
	ErrCommentsClosed = errors.New("post: comments closed")
)

type Post struct {
	ID            string
	UserID        string
	AuthorName    string // joined for display, not stored on the post
	Title         string
	Body          string
	Status        string
	AllowComments bool
	CreatedAt     time.Time
	Comments      []Comment
}

type Comment struct {
	ID         string
	PostID     string
	UserID     string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// Store persists posts and comments. All mutations are scoped to the
// owning user id supplied by the caller's session, never a URL id.
type Store interface {
	ListPublic(ctx context.Context) ([]Post, error)
	ListByUser(ctx context.Context, userID string) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, p Post) (string, error)
	Update(ctx context.Context, p Post) error
	Delete(ctx context.Context, id, userID string) error
	AddComment(ctx context.Context, postID, userID, body string) error
}
