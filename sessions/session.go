package sessions

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeBearer = "bearer"

// Session is a store access grant derived from a verified identity.
// It carries no refresh token; a new one needs a fresh provider assertion.
type Session struct {
	Token     string    `json:"access_token"`
	TokenType string    `json:"token_type"`
	SubjectID string    `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpiresIn is the remaining lifetime in whole seconds at now
func (s Session) ExpiresIn(now time.Time) int64 {
	if !now.Before(s.ExpiresAt) {
		return 0
	}
	return int64(s.ExpiresAt.Sub(now).Seconds())
}

type AppMetadata struct {
	Provider string `json:"provider,omitempty"`
}

type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Claims is the payload of a session token, shaped so row level
// security policies can read sub and role from it
type Claims struct {
	jwt.RegisteredClaims
	Role         string       `json:"role"`
	Email        string       `json:"email,omitempty"`
	AppMetadata  AppMetadata  `json:"app_metadata"`
	UserMetadata UserMetadata `json:"user_metadata"`
	SessionID    string       `json:"session_id"`
}
