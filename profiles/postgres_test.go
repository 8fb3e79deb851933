package profiles

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/stretchr/testify/require"
)

var profileColumns = []string{"id", "email", "full_name", "avatar_url", "created_at", "updated_at"}

func TestPostgresRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs("u1", "u1@example.com", "User One", "", updated).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow("u1", "u1@example.com", "User One", "", created, updated))

	repo := NewPostgresRepo(db)
	p, err := repo.Upsert(context.Background(), Profile{
		ID:        "u1",
		Email:     "u1@example.com",
		FullName:  "User One",
		UpdatedAt: updated,
	})
	require.NoError(t, err)
	require.Equal(t, created, p.CreatedAt)
	require.Equal(t, updated, p.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow("u1", "a@b.c", "A", "", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresRepo(db)

	p, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "a@b.c", p.Email)

	_, err = repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
