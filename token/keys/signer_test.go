package keys_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-identity-bridge/token/keys"
	"github.com/stretchr/testify/require"
)

func testClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestHMACSigner_RoundTrip(t *testing.T) {
	signer := keys.NewHMACSigner("super-secret")

	raw, err := signer.Sign(testClaims())
	require.NoError(t, err)

	token, err := jwt.Parse(raw, signer.GetVerificationKey)
	require.NoError(t, err)
	require.True(t, token.Valid)

	jwks, err := signer.GetJWKS()
	require.NoError(t, err)
	require.Empty(t, jwks.Keys)
}

func TestKeyPairSigner_RoundTrip(t *testing.T) {
	kp, err := keys.GenerateRSAKeyPair("kid-1", 2048)
	require.NoError(t, err)
	signer := keys.NewKeyPairSigner(kp)

	raw, err := signer.Sign(testClaims())
	require.NoError(t, err)

	token, err := jwt.Parse(raw, signer.GetVerificationKey)
	require.NoError(t, err)
	require.Equal(t, "kid-1", token.Header["kid"])

	jwks, err := signer.GetJWKS()
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "RSA", jwks.Keys[0].Kty)
	require.Equal(t, keys.RS256, jwks.Keys[0].Alg)
	require.Equal(t, "AQAB", jwks.Keys[0].E)
}

func TestKeyPairSigner_RejectsHMACToken(t *testing.T) {
	kp, err := keys.GenerateRSAKeyPair("kid-1", 2048)
	require.NoError(t, err)

	raw, err := keys.NewHMACSigner("secret").Sign(testClaims())
	require.NoError(t, err)

	_, err = jwt.Parse(raw, keys.NewKeyPairSigner(kp).GetVerificationKey)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected signing method")
}

func TestNewSigner(t *testing.T) {
	t.Run("pem wins over secret", func(t *testing.T) {
		kp, err := keys.GenerateRSAKeyPair("kid-9", 2048)
		require.NoError(t, err)
		pemData, err := kp.ExportPrivateKeyPEM()
		require.NoError(t, err)

		signer, err := keys.NewSigner("kid-9", pemData, "secret")
		require.NoError(t, err)
		require.Equal(t, jwt.SigningMethodRS256, signer.GetSigningMethod())
	})

	t.Run("secret only", func(t *testing.T) {
		signer, err := keys.NewSigner("", "", "secret")
		require.NoError(t, err)
		require.Equal(t, jwt.SigningMethodHS256, signer.GetSigningMethod())
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := keys.NewSigner("", "", "")
		require.Error(t, err)
	})

	t.Run("bad pem", func(t *testing.T) {
		_, err := keys.NewSigner("kid", "not a pem", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to decode PEM block")
	})
}
