package profiles

import (
	"context"
	"time"

	"github.com/jrsteele09/go-identity-bridge/identity"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/rs/zerolog/log"
)

const defaultStoreTimeout = 5 * time.Second

// Bridge maps verified identities onto profile rows in the secondary store
type Bridge struct {
	repo    Repo
	timeout time.Duration
	nowFunc func() time.Time
}

type BridgeOption func(*Bridge)

// WithStoreTimeout bounds every call into the secondary store
func WithStoreTimeout(timeout time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.timeout = timeout
	}
}

func WithNowFunc(now func() time.Time) BridgeOption {
	return func(b *Bridge) {
		b.nowFunc = now
	}
}

func NewBridge(repo Repo, options ...BridgeOption) *Bridge {
	b := &Bridge{
		repo:    repo,
		timeout: defaultStoreTimeout,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// SyncProfile upserts the profile for id using the assertion's claims
func (b *Bridge) SyncProfile(ctx context.Context, id identity.VerifiedIdentity) (Profile, error) {
	return b.SyncProfileWithDetails(ctx, id, Details{})
}

// SyncProfileWithDetails upserts the profile for id. Claims from the verified
// identity win; details only fill fields the assertion did not carry.
// Failures wrap apperrors.ErrSync.
func (b *Bridge) SyncProfileWithDetails(ctx context.Context, id identity.VerifiedIdentity, details Details) (Profile, error) {
	now := b.nowFunc()
	if err := id.Check(now); err != nil {
		return Profile{}, err
	}
	if err := ctx.Err(); err != nil {
		return Profile{}, apperrors.Join(apperrors.ErrSync, err)
	}

	profile := Profile{
		ID:        id.SubjectID,
		Email:     firstNonEmpty(id.Email, details.Email),
		FullName:  firstNonEmpty(id.DisplayName, details.FullName),
		AvatarURL: firstNonEmpty(id.AvatarURL, details.AvatarURL),
		UpdatedAt: now.UTC(),
	}

	// A started write is not abandoned when the client goes away; the store timeout still applies
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	stored, err := b.repo.Upsert(writeCtx, profile)
	if err != nil {
		log.Error().Err(err).Str("subject", id.SubjectID).Msg("profile upsert failed")
		return Profile{}, apperrors.Join(apperrors.ErrSync, err)
	}
	return stored, nil
}

// Get returns the caller's profile. A missing profile is apperrors.ErrNotFound.
func (b *Bridge) Get(ctx context.Context, id identity.VerifiedIdentity) (Profile, error) {
	if err := id.Check(b.nowFunc()); err != nil {
		return Profile{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	profile, err := b.repo.Get(ctx, id.SubjectID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return Profile{}, err
		}
		return Profile{}, apperrors.Join(apperrors.ErrSync, err)
	}
	return profile, nil
}

// EnsureProfile makes the secondary store authoritative for id before it is
// used as a task owner, syncing the profile when an earlier sync never landed.
func (b *Bridge) EnsureProfile(ctx context.Context, id identity.VerifiedIdentity) error {
	_, err := b.Get(ctx, id)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, apperrors.ErrNotFound):
		log.Info().Str("subject", id.SubjectID).Msg("profile missing, syncing before task access")
		_, err = b.SyncProfile(ctx, id)
		return err
	default:
		return err
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
