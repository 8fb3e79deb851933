package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-identity-bridge/internal/dbx"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

var _ Repo = (*PostgresRepo)(nil)

// PostgresRepo stores profiles in the profiles table
type PostgresRepo struct {
	db dbx.DBTX
}

func NewPostgresRepo(db dbx.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// Upsert is a single statement, so concurrent logins for one subject never duplicate the row
func (r *PostgresRepo) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	query := `
		INSERT INTO profiles (id, email, full_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    full_name = EXCLUDED.full_name,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, email, full_name, avatar_url, created_at, updated_at
	`
	var stored Profile
	err := r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.AvatarURL, profile.UpdatedAt,
	).Scan(&stored.ID, &stored.Email, &stored.FullName, &stored.AvatarURL, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Profile, error) {
	query := `
		SELECT id, email, full_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var p Profile
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, apperrors.Wrapf(apperrors.ErrNotFound, "profile %s", id)
		}
		return Profile{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
