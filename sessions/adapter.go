package sessions

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-bridge/identity"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/jrsteele09/go-identity-bridge/token/keys"
)

const (
	defaultIssuer   = "identity-bridge"
	defaultAudience = "authenticated"
	defaultRole     = "authenticated"
	defaultTTL      = time.Hour
)

// Adapter mints and validates session tokens for the secondary store
type Adapter struct {
	signer   keys.Signer
	issuer   string
	audience string
	role     string
	ttl      time.Duration
	revoked  RevocationList
	nowFunc  func() time.Time
}

type AdapterOption func(*Adapter)

func WithIssuer(issuer string) AdapterOption {
	return func(a *Adapter) {
		a.issuer = issuer
	}
}

func WithAudience(audience string) AdapterOption {
	return func(a *Adapter) {
		a.audience = audience
	}
}

func WithRole(role string) AdapterOption {
	return func(a *Adapter) {
		a.role = role
	}
}

func WithTTL(ttl time.Duration) AdapterOption {
	return func(a *Adapter) {
		a.ttl = ttl
	}
}

// WithRevocationList replaces the default in-memory revocation list
func WithRevocationList(list RevocationList) AdapterOption {
	return func(a *Adapter) {
		a.revoked = list
	}
}

func WithNowFunc(now func() time.Time) AdapterOption {
	return func(a *Adapter) {
		a.nowFunc = now
	}
}

func NewAdapter(signer keys.Signer, options ...AdapterOption) *Adapter {
	a := &Adapter{
		signer:   signer,
		issuer:   defaultIssuer,
		audience: defaultAudience,
		role:     defaultRole,
		ttl:      defaultTTL,
		revoked:  NewInMemoryRevocationList(),
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Issuer is the iss claim carried by every session token
func (a *Adapter) Issuer() string {
	return a.issuer
}

// JWKS returns the keys that verify session tokens, empty for HS256
func (a *Adapter) JWKS() (*keys.JWKS, error) {
	return a.signer.GetJWKS()
}

// DeriveSession mints a session for id. The session never outlives the assertion it came from.
func (a *Adapter) DeriveSession(ctx context.Context, id identity.VerifiedIdentity) (Session, error) {
	now := a.nowFunc()
	if err := id.Check(now); err != nil {
		return Session{}, apperrors.Join(apperrors.ErrSession, err)
	}
	if err := ctx.Err(); err != nil {
		return Session{}, apperrors.Join(apperrors.ErrSession, err)
	}

	expiresAt := now.Add(a.ttl)
	if id.ExpiresAt.Before(expiresAt) {
		expiresAt = id.ExpiresAt
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   id.SubjectID,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Role:  a.role,
		Email: id.Email,
		AppMetadata: AppMetadata{
			Provider: id.SignInProvider,
		},
		UserMetadata: UserMetadata{
			FullName:  id.DisplayName,
			AvatarURL: id.AvatarURL,
		},
		SessionID: uuid.NewString(),
	}

	signed, err := a.signer.Sign(claims)
	if err != nil {
		return Session{}, apperrors.Join(apperrors.ErrSession, err)
	}

	return Session{
		Token:     signed,
		TokenType: TokenTypeBearer,
		SubjectID: id.SubjectID,
		Role:      a.role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate parses a session token minted by this adapter back into the identity it was derived from.
// A revocation list that cannot be consulted fails with apperrors.ErrSession.
func (a *Adapter) Validate(ctx context.Context, raw string) (identity.VerifiedIdentity, error) {
	claims, err := a.parse(raw)
	if err != nil {
		return identity.VerifiedIdentity{}, err
	}

	revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return identity.VerifiedIdentity{}, apperrors.Join(apperrors.ErrSession, err)
	}
	if revoked {
		return identity.VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrUnauthenticated, "session %s was revoked", claims.SessionID)
	}

	id := identity.VerifiedIdentity{
		SubjectID:      claims.Subject,
		Issuer:         claims.Issuer,
		Email:          claims.Email,
		DisplayName:    claims.UserMetadata.FullName,
		AvatarURL:      claims.UserMetadata.AvatarURL,
		SignInProvider: claims.AppMetadata.Provider,
		ExpiresAt:      claims.ExpiresAt.UTC(),
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.UTC()
	}
	return id, nil
}

// Revoke signs a session out. Later Validate calls reject the token.
func (a *Adapter) Revoke(ctx context.Context, raw string) error {
	claims, err := a.parse(raw)
	if err != nil {
		return err
	}

	a.revoked.Cleanup(a.nowFunc())
	if err := a.revoked.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.Join(apperrors.ErrSession, err)
	}
	return nil
}

func (a *Adapter) parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, apperrors.Wrapf(apperrors.ErrUnauthenticated, "empty session token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, a.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{a.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithAudience(a.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(a.nowFunc),
	)
	if err != nil {
		return nil, apperrors.Join(apperrors.ErrUnauthenticated, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrUnauthenticated, "session token has no subject or id")
	}
	return claims, nil
}
