package config

import "time"

const (
	firebaseProjectEnvVar  = "FIREBASE_PROJECT_ID"
	identityIssuerEnvVar   = "IDENTITY_ISSUER"
	identityJWKSEnvVar     = "IDENTITY_JWKS_URL"
	identityLeewayEnvVar   = "IDENTITY_LEEWAY"
	identityTimeoutEnvVar  = "IDENTITY_PROVIDER_TIMEOUT"
	firebaseIssuerPrefix   = "https://securetoken.google.com/"
	firebaseSecureTokenJWK = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

type IdentityConfig interface {
	GetIdentityAudience() string
	GetIdentityIssuer() string
	GetIdentityJWKSURL() string
	GetIdentityLeeway() time.Duration
	GetIdentityProviderTimeout() time.Duration
}

type Identity struct{}

var _ IdentityConfig = Identity{}

// GetIdentityAudience is the Firebase project ID, which is the aud claim of its ID tokens
func (Identity) GetIdentityAudience() string {
	return GetEnv(firebaseProjectEnvVar, "")
}

func (i Identity) GetIdentityIssuer() string {
	return GetEnv(identityIssuerEnvVar, firebaseIssuerPrefix+i.GetIdentityAudience())
}

func (Identity) GetIdentityJWKSURL() string {
	return GetEnv(identityJWKSEnvVar, firebaseSecureTokenJWK)
}

func (Identity) GetIdentityLeeway() time.Duration {
	return GetEnvDuration(identityLeewayEnvVar, 60*time.Second)
}

func (Identity) GetIdentityProviderTimeout() time.Duration {
	return GetEnvDuration(identityTimeoutEnvVar, 5*time.Second)
}
