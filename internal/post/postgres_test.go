package post

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyshare/internal/db"
)

const (
	ownerID      = "5f1c2c4e-6a1d-4a88-9a1e-5a0c2b3d4e5f"
	otherID      = "0d9e8f7a-6b5c-4d3e-2f1a-0b9c8d7e6f5a"
	samplePostID = "aa1c2c4e-6a1d-4a88-9a1e-5a0c2b3d4eaa"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewPostgresStore(&db.DB{DB: conn}), mock
}

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "display_name", "title", "body", "status",
		"allow_comments", "created_at",
	}).AddRow(
		samplePostID, ownerID, "Ada Lovelace", "First Story",
		"Once upon a time.", StatusPublic, true, time.Now(),
	)
}

func TestListPublic(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`WHERE p\.status = 'public'`).
		WillReturnRows(postRows())

	posts, err := store.ListPublic(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, samplePostID, posts[0].ID)
	assert.Equal(t, "Ada Lovelace", posts[0].AuthorName)
	assert.True(t, posts[0].AllowComments)
}

func TestCreateReturnsID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(ownerID, "First Story", "Once upon a time.", StatusPublic, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(samplePostID))

	id, err := store.Create(context.Background(), Post{
		UserID: ownerID,
		Title:  "First Story",
		Body:   "Once upon a time.",
		Status: StatusPublic,
	})
	require.NoError(t, err)
	assert.Equal(t, samplePostID, id)
}

func TestUpdateByNonOwnerAffectsNothing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE posts").
		WithArgs(samplePostID, otherID, "Hijacked", "body", StatusPublic, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), Post{
		ID:     samplePostID,
		UserID: otherID,
		Title:  "Hijacked",
		Body:   "body",
		Status: StatusPublic,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateByOwner(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE posts").
		WithArgs(samplePostID, ownerID, "Edited", "new body", StatusPrivate, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), Post{
		ID:            samplePostID,
		UserID:        ownerID,
		Title:         "Edited",
		Body:          "new body",
		Status:        StatusPrivate,
		AllowComments: true,
	})
	assert.NoError(t, err)
}

func TestDeleteScopedToOwner(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM posts").
		WithArgs(samplePostID, otherID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), samplePostID, otherID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddComment(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT allow_comments").
		WithArgs(samplePostID).
		WillReturnRows(sqlmock.NewRows([]string{"allow_comments"}).AddRow(true))
	mock.ExpectExec("INSERT INTO comments").
		WithArgs(samplePostID, otherID, "Nice story!").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AddComment(context.Background(), samplePostID, otherID, "Nice story!")
	assert.NoError(t, err)
}

func TestAddCommentClosed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT allow_comments").
		WithArgs(samplePostID).
		WillReturnRows(sqlmock.NewRows([]string{"allow_comments"}).AddRow(false))

	err := store.AddComment(context.Background(), samplePostID, otherID, "Nice story!")
	assert.ErrorIs(t, err, ErrCommentsClosed)

	// no insert after the refusal
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentMissingPost(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT allow_comments").
		WithArgs(samplePostID).
		WillReturnError(sql.ErrNoRows)

	err := store.AddComment(context.Background(), samplePostID, otherID, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}
