package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-identity-bridge/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_GetPort(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("PORT", "")
		require.Equal(t, ":8080", config.New().GetPort())
	})

	t.Run("bare number", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		require.Equal(t, ":5000", config.New().GetPort())
	})

	t.Run("already prefixed", func(t *testing.T) {
		t.Setenv("PORT", ":9000")
		require.Equal(t, ":9000", config.New().GetPort())
	})
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DURATION", "90s")
	require.Equal(t, 90*time.Second, config.GetEnvDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "30")
	require.Equal(t, 30*time.Second, config.GetEnvDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "soon")
	require.Equal(t, time.Second, config.GetEnvDuration("X_DURATION", time.Second))
}

func TestIdentity_DerivesIssuerFromProject(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "ai-calendar")
	t.Setenv("IDENTITY_ISSUER", "")

	c := config.New()
	require.Equal(t, "ai-calendar", c.GetIdentityAudience())
	require.Equal(t, "https://securetoken.google.com/ai-calendar", c.GetIdentityIssuer())
	require.Equal(t, 60*time.Second, c.GetIdentityLeeway())
}

func TestStore_DriverFollowsDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")

	t.Setenv("DATABASE_URL", "")
	require.Equal(t, config.StoreDriverMemory, config.New().GetStoreDriver())

	t.Setenv("DATABASE_URL", "postgres://localhost/calendar")
	require.Equal(t, config.StoreDriverPostgres, config.New().GetStoreDriver())
}

func TestParseAllowedOrigins(t *testing.T) {
	origins := config.ParseAllowedOrigins(" http://a.test , ,http://b.test")
	require.True(t, origins.IsAllowedOrigin("http://a.test"))
	require.True(t, origins.IsAllowedOrigin("http://b.test"))
	require.False(t, origins.IsAllowedOrigin(""))
	require.Equal(t, "http://a.test, http://b.test", origins.String())
}

func TestSession_RedisIsOptional(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	require.Empty(t, config.New().GetRedisAddr())

	t.Setenv("REDIS_ADDR", "localhost:6379")
	require.Equal(t, "localhost:6379", config.New().GetRedisAddr())
}
