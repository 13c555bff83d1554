package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storyshare/internal/auth"
	"storyshare/internal/db"
)

const userColumns = `
	u.id,
	u.display_name,
	COALESCE(u.email, ''),
	COALESCE(u.phone, ''),
	COALESCE(u.location, ''),
	COALESCE(u.profile_image_url, ''),
	u.created_at
`

// PostgresStore is the canonical user store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var id uuid.UUID
	err := row.Scan(
		&id,
		&u.DisplayName,
		&u.Email,
		&u.Phone,
		&u.Location,
		&u.ProfileImageURL,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.ID = id.String()
	return &u, nil
}

func (s *PostgresStore) FindOrCreate(
	ctx context.Context,
	profile *auth.Profile,
) (*User, error) {

	if profile == nil {
		return nil, errors.New("user: profile is nil")
	}
	if profile.Provider == "" || profile.ProviderUserID == "" {
		return nil, errors.New("user: profile missing provider identity")
	}

	// 1. Provider account lookup. A re-login returns the stored row
	// untouched so user-edited fields are never clobbered.
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN provider_accounts pa ON pa.user_id = u.id
		WHERE pa.provider = $1
		  AND pa.provider_user_id = $2
	`,
		profile.Provider,
		profile.ProviderUserID,
	))

	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("user: provider account lookup: %w", err)
	}

	// 2. First login for this provider account: create user + link.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("user: begin create: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (display_name, email, profile_image_url)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING id
	`,
		profile.DisplayName,
		profile.Email,
		profile.ProfileImageURL,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("user: insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO provider_accounts (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		id,
		profile.Provider,
		profile.ProviderUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("user: insert provider account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("user: commit create: %w", err)
	}

	return &User{
		ID:              id.String(),
		DisplayName:     profile.DisplayName,
		Email:           profile.Email,
		ProfileImageURL: profile.ProfileImageURL,
	}, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id = $1
	`, id))

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user: find by id: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) updateColumn(
	ctx context.Context,
	id string,
	column string,
	value string,
) error {
	// column comes from the fixed set below, never from input
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET `+column+` = $2, updated_at = NOW()
		WHERE id = $1
	`, id, value)
	if err != nil {
		return fmt.Errorf("user: update %s: %w", column, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user: update %s: %w", column, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateEmail(ctx context.Context, id, email string) error {
	return s.updateColumn(ctx, id, "email", email)
}

func (s *PostgresStore) UpdatePhone(ctx context.Context, id, phone string) error {
	return s.updateColumn(ctx, id, "phone", phone)
}

func (s *PostgresStore) UpdateLocation(ctx context.Context, id, location string) error {
	return s.updateColumn(ctx, id, "location", location)
}
