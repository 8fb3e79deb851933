package tasks

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		tasks: make(map[string]Task),
	}
}

func (r *InMemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Task, 0)
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].OccursAt.Equal(list[j].OccursAt) {
			return list[i].OccursAt.Before(list[j].OccursAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *InMemoryRepo) Insert(ctx context.Context, task Task) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return Task{}, apperrors.Wrapf(apperrors.ErrValidation, "task %s already exists", task.ID)
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *InMemoryRepo) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrNotFound, "task %s", taskID)
	}
	if t.OwnerID != ownerID {
		return apperrors.Wrapf(apperrors.ErrForbidden, "task %s", taskID)
	}
	delete(r.tasks, taskID)
	return nil
}

// Len returns the number of stored tasks across all owners
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
