package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-identity-bridge/identity"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/rs/zerolog/log"
)

// RequireAuth accepts either a provider assertion or a session token minted by this service.
// The unverified iss claim only picks the validator; the chosen validator checks everything.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireBearer(true)
}

// RequireAssertion accepts provider assertions only
func (s *Server) RequireAssertion() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireBearer(false)
}

func (s *Server) requireBearer(allowSession bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeJSONError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			var id identity.VerifiedIdentity
			if allowSession && s.isSessionToken(token) {
				id, err = s.sessions.Validate(r.Context(), token)
			} else {
				id, err = s.verifier.Verify(r.Context(), token)
			}
			if apperrors.Is(err, apperrors.ErrSession) {
				respondError(w, r, err)
				return
			}
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("bearer rejected")
				writeJSONError(w, "Token verification failed: "+err.Error(), http.StatusUnauthorized)
				return
			}

			next(w, r.WithContext(identity.NewContext(r.Context(), id)))
		}
	}
}

func (s *Server) isSessionToken(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	iss, _ := claims.GetIssuer()
	return iss != "" && iss == s.sessions.Issuer()
}

var (
	errMissingToken  = errors.New("authorization token missing")
	errInvalidHeader = errors.New("invalid authorization header format")
	errEmptyToken    = errors.New("empty token")
)

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errInvalidHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}

// callerFrom returns the identity placed by RequireAuth
func callerFrom(r *http.Request) (identity.VerifiedIdentity, error) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return identity.VerifiedIdentity{}, apperrors.Wrapf(apperrors.ErrUnauthenticated, "no caller on request")
	}
	return id, nil
}
