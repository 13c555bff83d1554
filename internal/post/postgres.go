package post

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storyshare/internal/db"
)

const postColumns = `
	p.id,
	p.user_id,
	u.display_name,
	p.title,
	p.body,
	p.status,
	p.allow_comments,
	p.created_at
`

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var id, userID uuid.UUID
		err := rows.Scan(
			&id,
			&userID,
			&p.AuthorName,
			&p.Title,
			&p.Body,
			&p.Status,
			&p.AllowComments,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.UserID = userID.String()
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) ListPublic(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.status = 'public'
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("post: list public: %w", err)
	}
	return scanPosts(rows)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("post: list by user: %w", err)
	}
	return scanPosts(rows)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Post, error) {
	var p Post
	var postID, userID uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`, id).Scan(
		&postID,
		&userID,
		&p.AuthorName,
		&p.Title,
		&p.Body,
		&p.Status,
		&p.AllowComments,
		&p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post: get: %w", err)
	}
	p.ID = postID.String()
	p.UserID = userID.String()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, u.display_name, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("post: get comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Comment
		var commentID, commenterID uuid.UUID
		err := rows.Scan(&commentID, &commenterID, &c.AuthorName, &c.Body, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("post: get comments: %w", err)
		}
		c.ID = commentID.String()
		c.PostID = p.ID
		c.UserID = commenterID.String()
		p.Comments = append(p.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("post: get comments: %w", err)
	}

	return &p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p Post) (string, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, title, body, status, allow_comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		p.UserID,
		p.Title,
		p.Body,
		p.Status,
		p.AllowComments,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("post: create: %w", err)
	}
	return id.String(), nil
}

// Update rewrites the editable fields of the caller's own post. The
// user_id predicate is the ownership check; a non-owner affects zero
// rows and sees ErrNotFound.
func (s *PostgresStore) Update(ctx context.Context, p Post) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts
		SET title = $3, body = $4, status = $5, allow_comments = $6,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`,
		p.ID,
		p.UserID,
		p.Title,
		p.Body,
		p.Status,
		p.AllowComments,
	)
	if err != nil {
		return fmt.Errorf("post: update: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM posts
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("post: delete: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) AddComment(ctx context.Context, postID, userID, body string) error {
	var allow bool
	err := s.db.QueryRowContext(ctx, `
		SELECT allow_comments FROM posts WHERE id = $1
	`, postID).Scan(&allow)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("post: add comment: %w", err)
	}
	if !allow {
		return ErrCommentsClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO comments (post_id, user_id, body)
		VALUES ($1, $2, $3)
	`, postID, userID, body)
	if err != nil {
		return fmt.Errorf("post: add comment: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
