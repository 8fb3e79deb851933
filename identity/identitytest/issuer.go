// Package identitytest provides a fake identity provider that signs Firebase style
// ID tokens and serves its JWKS over httptest.
package identitytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-identity-bridge/token/keys"
	"github.com/stretchr/testify/require"
)

const (
	ProjectID = "ai-calendar-test"
	Issuer    = "https://securetoken.google.com/" + ProjectID
)

type Provider struct {
	t       *testing.T
	server  *httptest.Server
	mu      sync.RWMutex
	signer  *keys.KeyPairSigner
	jwks    *keys.JWKS
	fetches atomic.Int64
}

// NewProvider starts a JWKS server publishing a freshly generated key
func NewProvider(t *testing.T) *Provider {
	t.Helper()

	p := &Provider{t: t}
	p.Rotate("key-1")

	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.fetches.Add(1)
		p.mu.RLock()
		defer p.mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p.jwks)
	}))
	t.Cleanup(p.server.Close)
	return p
}

// Rotate replaces the published key with a new one identified by keyID
func (p *Provider) Rotate(keyID string) {
	p.t.Helper()

	kp, err := keys.GenerateRSAKeyPair(keyID, 2048)
	require.NoError(p.t, err)
	signer := keys.NewKeyPairSigner(kp)
	jwks, err := signer.GetJWKS()
	require.NoError(p.t, err)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.signer = signer
	p.jwks = jwks
}

func (p *Provider) JWKSURL() string {
	return p.server.URL
}

// Fetches counts JWKS requests served so far
func (p *Provider) Fetches() int64 {
	return p.fetches.Load()
}

// Claims returns valid claims for subject, issued now and expiring in an hour
func Claims(subject string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":       Issuer,
		"aud":       ProjectID,
		"sub":       subject,
		"user_id":   subject,
		"iat":       now.Unix(),
		"auth_time": now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
		"email":     subject + "@example.com",
		"name":      "Test " + subject,
		"picture":   "https://example.com/" + subject + ".png",
		"firebase": map[string]any{
			"sign_in_provider": "google.com",
		},
	}
}

// Sign signs claims with the currently published key
func (p *Provider) Sign(claims jwt.MapClaims) string {
	p.t.Helper()

	p.mu.RLock()
	signer := p.signer
	p.mu.RUnlock()

	raw, err := signer.Sign(claims)
	require.NoError(p.t, err)
	return raw
}

// Issue signs default claims for subject
func (p *Provider) Issue(subject string) string {
	return p.Sign(Claims(subject))
}
