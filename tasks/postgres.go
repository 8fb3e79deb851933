package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-identity-bridge/internal/dbx"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

var _ Repo = (*PostgresRepo)(nil)

// SQLDB is the *sql.DB surface the repository needs
type SQLDB interface {
	dbx.DBTX
	dbx.TxBeginner
}

type PostgresRepo struct {
	db SQLDB
}

func NewPostgresRepo(db SQLDB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	query := `
		SELECT id, user_id, description, date, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Description, &t.OccursAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, task Task) (Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, description, date, created_at
	`
	var t Task
	err := r.db.QueryRowContext(ctx, query, task.ID, task.OwnerID, task.Description, task.OccursAt, task.CreatedAt).
		Scan(&t.ID, &t.OwnerID, &t.Description, &t.OccursAt, &t.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Delete locks the row before deleting so not-found and not-yours are told apart atomically
func (r *PostgresRepo) Delete(ctx context.Context, ownerID, taskID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM tasks WHERE id = $1 FOR UPDATE`, taskID).Scan(&owner)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.Wrapf(apperrors.ErrNotFound, "task %s", taskID)
			}
			return fmt.Errorf("db error: %w", err)
		}
		if owner != ownerID {
			return apperrors.Wrapf(apperrors.ErrForbidden, "task %s", taskID)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
