package tasks

import (
	"context"
	"time"
)

// Task is a calendar entry owned by exactly one profile
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user_id"`
	Description string    `json:"description"`
	OccursAt    time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repo persists tasks. Implementations never return another owner's rows.
type Repo interface {
	// ListByOwner returns tasks ordered by OccursAt then ID
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	Insert(ctx context.Context, task Task) (Task, error)
	// Delete removes taskID when ownerID owns it, returning
	// apperrors.ErrNotFound or apperrors.ErrForbidden otherwise
	Delete(ctx context.Context, ownerID, taskID string) error
}
