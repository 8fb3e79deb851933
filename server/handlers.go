package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-identity-bridge/sessions"
	"github.com/rs/zerolog/log"
)

// IndexHandler is the liveness probe
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "Backend is running!"}, http.StatusOK)
	}
}

// PreflightHandler answers OPTIONS requests that carry no Origin
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

type verifyIDTokenRequest struct {
	IDToken string `json:"idToken"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

type verifyIDTokenResponse struct {
	UID           string          `json:"uid"`
	Email         string          `json:"email,omitempty"`
	ProfileSynced bool            `json:"profile_synced"`
	Session       sessionResponse `json:"session"`
}

func newSessionResponse(session sessions.Session, now time.Time) sessionResponse {
	return sessionResponse{
		AccessToken: session.Token,
		TokenType:   session.TokenType,
		ExpiresIn:   session.ExpiresIn(now),
		ExpiresAt:   session.ExpiresAt.Unix(),
		UserID:      session.SubjectID,
		Role:        session.Role,
	}
}

// VerifyIDTokenHandler exchanges a provider assertion for a store session.
// A failed profile sync is reported but does not fail the login.
func (s *Server) VerifyIDTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyIDTokenRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			respondError(w, r, err)
			return
		}
		if req.IDToken == "" {
			writeJSONError(w, "Missing ID token", http.StatusBadRequest)
			return
		}

		id, err := s.verifier.Verify(r.Context(), req.IDToken)
		if err != nil {
			respondError(w, r, err)
			return
		}

		synced := true
		if _, err := s.profiles.SyncProfile(r.Context(), id); err != nil {
			synced = false
			log.Warn().Err(err).Str("subject", id.SubjectID).Msg("profile sync failed during login")
		}

		session, err := s.sessions.DeriveSession(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}

		writeJSON(w, verifyIDTokenResponse{
			UID:           id.SubjectID,
			Email:         id.Email,
			ProfileSynced: synced,
			Session:       newSessionResponse(session, s.nowFunc()),
		}, http.StatusOK)
	}
}

// RefreshSessionHandler mints a new session from a fresh provider assertion
func (s *Server) RefreshSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callerFrom(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		session, err := s.sessions.DeriveSession(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"session": newSessionResponse(session, s.nowFunc())}, http.StatusOK)
	}
}

// RevokeSessionHandler signs out the session presented as the bearer token
func (s *Server) RevokeSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		if err := s.sessions.Revoke(r.Context(), token); err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, map[string]string{"message": "Signed out"}, http.StatusOK)
	}
}

// JWKSHandler publishes the keys that verify session tokens
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jwks, err := s.sessions.JWKS()
		if err != nil {
			respondError(w, r, err)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
		writeJSON(w, jwks, http.StatusOK)
	}
}
