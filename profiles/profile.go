package profiles

import (
	"context"
	"time"
)

// Profile is the secondary store's record of a user, keyed by the provider subject
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Details are caller supplied profile fields used when the assertion lacks them
type Details struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Repo persists profiles. Upsert is atomic per ID and never changes ID or CreatedAt.
type Repo interface {
	Upsert(ctx context.Context, profile Profile) (Profile, error)
	// Get returns apperrors.ErrNotFound when no profile exists
	Get(ctx context.Context, id string) (Profile, error)
}
