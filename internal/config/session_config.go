package config

import "time"

type SessionConfig interface {
	GetSessionJWTSecret() string
	GetSessionSigningKeyPEM() string
	GetSessionKeyID() string
	GetSessionIssuer() string
	GetSessionAudience() string
	GetSessionRole() string
	GetSessionTTL() time.Duration
	GetRedisAddr() string
	GetRedisPassword() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionJWTSecret is the secondary store's JWT secret (HS256)
func (Session) GetSessionJWTSecret() string {
	return GetEnv("SESSION_JWT_SECRET", "")
}

// GetSessionSigningKeyPEM is a PKCS#1 RSA private key. Takes precedence over the secret.
func (Session) GetSessionSigningKeyPEM() string {
	return GetEnv("SESSION_SIGNING_KEY_PEM", "")
}

func (Session) GetSessionKeyID() string {
	return GetEnv("SESSION_KEY_ID", "session-key-1")
}

func (Session) GetSessionIssuer() string {
	return GetEnv("SESSION_ISSUER", "identity-bridge")
}

func (Session) GetSessionAudience() string {
	return GetEnv("SESSION_AUDIENCE", "authenticated")
}

func (Session) GetSessionRole() string {
	return GetEnv("SESSION_ROLE", "authenticated")
}

func (Session) GetSessionTTL() time.Duration {
	return GetEnvDuration("SESSION_TTL", time.Hour)
}

// GetRedisAddr enables the shared revocation list when set
func (Session) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Session) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}
