package identity

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

const (
	defaultLeeway      = 60 * time.Second
	defaultTimeout     = 5 * time.Second
	maxSubjectIDLength = 128
)

// Verifier validates identity assertions (Firebase ID tokens) issued by an external provider
type Verifier struct {
	verifier   *oidc.IDTokenVerifier
	algs       []string
	leeway     time.Duration
	timeout    time.Duration
	httpClient *http.Client
	nowFunc    func() time.Time
}

type VerifierOption func(*Verifier)

// WithLeeway sets the clock skew tolerated on exp, iat and auth_time
func WithLeeway(leeway time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.leeway = leeway
	}
}

// WithTimeout bounds each call into the provider's key endpoint
func WithTimeout(timeout time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) VerifierOption {
	return func(v *Verifier) {
		v.httpClient = client
	}
}

func WithNowFunc(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.nowFunc = now
	}
}

// NewVerifier builds a verifier for assertions issued by issuer for audience.
// Signing keys are fetched from jwksURL and cached; an unknown key triggers one refresh.
// ctx scopes the key set's background HTTP client and should outlive requests.
func NewVerifier(ctx context.Context, issuer, audience, jwksURL string, options ...VerifierOption) (*Verifier, error) {
	if issuer == "" || audience == "" || jwksURL == "" {
		return nil, fmt.Errorf("[identity NewVerifier] issuer, audience and jwks url are required")
	}

	v := &Verifier{
		algs:    []string{oidc.RS256},
		leeway:  defaultLeeway,
		timeout: defaultTimeout,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	if v.httpClient == nil {
		v.httpClient = &http.Client{Timeout: v.timeout}
	}

	keySet := oidc.NewRemoteKeySet(oidc.ClientContext(ctx, v.httpClient), jwksURL)
	v.verifier = oidc.NewVerifier(issuer, keySet, &oidc.Config{
		ClientID:             audience,
		SupportedSigningAlgs: v.algs,
		// exp, iat and nbf are checked below with the configured leeway
		SkipExpiryCheck: true,
		Now:             v.nowFunc,
	})
	return v, nil
}

type assertionClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	AuthTime      int64  `json:"auth_time"`
	NotBefore     int64  `json:"nbf"`
	Firebase      struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
}

// Verify validates the assertion's signature, issuer, audience and validity window.
// Every failure wraps apperrors.ErrInvalidAssertion.
func (v *Verifier) Verify(ctx context.Context, assertion string) (VerifiedIdentity, error) {
	assertion = strings.TrimSpace(assertion)
	if assertion == "" {
		return VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrInvalidAssertion, "empty assertion")
	}
	if err := v.checkStructure(assertion); err != nil {
		return VerifiedIdentity{}, apperrors.Join(apperrors.ErrInvalidAssertion, err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	token, err := v.verifier.Verify(ctx, assertion)
	if err != nil {
		return VerifiedIdentity{}, apperrors.Join(apperrors.ErrInvalidAssertion, err)
	}

	now := v.nowFunc()
	if token.Expiry.IsZero() || now.After(token.Expiry.Add(v.leeway)) {
		return VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrInvalidAssertion, "assertion expired at %s", token.Expiry.UTC().Format(time.RFC3339))
	}
	if !token.IssuedAt.IsZero() && token.IssuedAt.After(now.Add(v.leeway)) {
		return VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrInvalidAssertion, "assertion not valid before %s", token.IssuedAt.UTC().Format(time.RFC3339))
	}

	if token.Subject == "" || len(token.Subject) > maxSubjectIDLength {
		return VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrInvalidAssertion, "assertion has an invalid subject")
	}

	var claims assertionClaims
	if err := token.Claims(&claims); err != nil {
		return VerifiedIdentity{}, apperrors.Join(apperrors.ErrInvalidAssertion, err)
	}
	if claims.NotBefore != 0 && time.Unix(claims.NotBefore, 0).After(now.Add(v.leeway)) {
		return VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrInvalidAssertion, "assertion not valid before %s", time.Unix(claims.NotBefore, 0).UTC().Format(time.RFC3339))
	}
	if claims.AuthTime != 0 && time.Unix(claims.AuthTime, 0).After(now.Add(v.leeway)) {
		return VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrInvalidAssertion, "assertion auth_time is in the future")
	}

	expiresAt := token.Expiry
	if !now.Before(expiresAt) {
		// Accepted inside the leeway window; the identity stays live until the window closes
		expiresAt = expiresAt.Add(v.leeway)
	}

	return VerifiedIdentity{
		SubjectID:      token.Subject,
		Issuer:         token.Issuer,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		DisplayName:    claims.Name,
		AvatarURL:      claims.Picture,
		SignInProvider: claims.Firebase.SignInProvider,
		IssuedAt:       token.IssuedAt,
		ExpiresAt:      expiresAt,
	}, nil
}

// checkStructure rejects input that is not a compact JWS with a supported alg and a kid, without any network call
func (v *Verifier) checkStructure(assertion string) error {
	unverified, _, err := jwt.NewParser().ParseUnverified(assertion, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("malformed assertion: %w", err)
	}
	alg, _ := unverified.Header["alg"].(string)
	if !slices.Contains(v.algs, alg) {
		return fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	if kid, _ := unverified.Header["kid"].(string); kid == "" {
		return fmt.Errorf("assertion header has no kid")
	}
	return nil
}
