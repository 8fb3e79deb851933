package identity

import (
	"context"
	"time"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

// VerifiedIdentity is the caller identity established for a single request.
// SubjectID is the issuer scoped subject claim and never a mutable field like email.
type VerifiedIdentity struct {
	SubjectID      string    `json:"uid"`
	Issuer         string    `json:"iss"`
	Email          string    `json:"email,omitempty"`
	EmailVerified  bool      `json:"email_verified,omitempty"`
	DisplayName    string    `json:"name,omitempty"`
	AvatarURL      string    `json:"picture,omitempty"`
	SignInProvider string    `json:"sign_in_provider,omitempty"`
	IssuedAt       time.Time `json:"iat"`
	ExpiresAt      time.Time `json:"exp"`
}

// Check reports ErrUnauthenticated when the identity is absent or expired at now
func (v VerifiedIdentity) Check(now time.Time) error {
	if v.SubjectID == "" {
		return apperrors.Wrapf(apperrors.ErrUnauthenticated, "no verified identity")
	}
	if v.ExpiresAt.IsZero() || !now.Before(v.ExpiresAt) {
		return apperrors.Wrapf(apperrors.ErrUnauthenticated, "identity for %s expired", v.SubjectID)
	}
	return nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the verified identity
func NewContext(ctx context.Context, id VerifiedIdentity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity placed by NewContext
func FromContext(ctx context.Context) (VerifiedIdentity, bool) {
	id, ok := ctx.Value(contextKey{}).(VerifiedIdentity)
	return id, ok
}
