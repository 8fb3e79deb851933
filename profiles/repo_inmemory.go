package profiles

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a process local profile store
type InMemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		profiles: make(map[string]Profile),
	}
}

func (r *InMemoryRepo) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	if profile.ID == "" {
		return Profile{}, fmt.Errorf("profile id is required")
	}
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.profiles[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = profile.UpdatedAt
	}
	r.profiles[profile.ID] = profile
	return profile, nil
}

func (r *InMemoryRepo) Get(ctx context.Context, id string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return Profile{}, apperrors.Wrapf(apperrors.ErrNotFound, "profile %s", id)
	}
	return profile, nil
}

// Len returns the number of stored profiles
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
