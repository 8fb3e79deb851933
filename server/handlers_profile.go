package server

import (
	"net/http"

	"github.com/jrsteele09/go-identity-bridge/profiles"
	"github.com/rs/zerolog/log"
)

type syncProfileRequest struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// SyncProfileHandler upserts the caller's profile. Body fields only fill gaps left by the verified claims.
func (s *Server) SyncProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		var req syncProfileRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			respondError(w, r, err)
			return
		}
		if req.ID != "" && req.ID != caller.SubjectID {
			log.Warn().Str("subject", caller.SubjectID).Str("requested", req.ID).Msg("profile sync for another subject refused")
			writeJSONError(w, "cannot sync another user's profile", http.StatusForbidden)
			return
		}

		profile, err := s.profiles.SyncProfileWithDetails(r.Context(), caller, profiles.Details{
			Email:     req.Email,
			FullName:  req.FullName,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			respondError(w, r, err)
			return
		}

		writeJSON(w, map[string]any{"message": "Profile synced", "data": profile}, http.StatusOK)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		profile, err := s.profiles.Get(r.Context(), caller)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, profile, http.StatusOK)
	}
}
