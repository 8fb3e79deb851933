package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20
)

func writeJSON(w http.ResponseWriter, body any, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes the {"error": ...} body every route uses for failures
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"error": message}, statusCode)
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidAssertion), apperrors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrNotFound), apperrors.Is(err, apperrors.ErrForbidden):
		// Callers cannot probe for the existence of other users' rows
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrPrediction):
		return http.StatusBadGateway
	case apperrors.Is(err, apperrors.ErrSync), apperrors.Is(err, apperrors.ErrSession):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a response that discloses no store internals
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	event := log.Warn()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		event = log.Error()
	}
	event.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	var message string
	switch status {
	case http.StatusUnauthorized, http.StatusBadRequest, http.StatusBadGateway:
		message = err.Error()
	case http.StatusNotFound:
		message = "not found"
	case http.StatusServiceUnavailable:
		message = "secondary store unavailable"
	default:
		message = "internal server error"
	}
	writeJSONError(w, message, status)
}

// decodeJSON reads a JSON body into v. An empty body is accepted when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return apperrors.Wrapf(apperrors.ErrValidation, "invalid request body")
}
