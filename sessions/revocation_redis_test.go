package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocationList(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("add sets key until expiry", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		list := NewRedisRevocationList(db)
		list.nowFunc = func() time.Time { return now }

		mock.ExpectSet(revokedKeyPrefix+"jti-1", 1, 30*time.Minute).SetVal("OK")
		require.NoError(t, list.Add(ctx, "jti-1", now.Add(30*time.Minute)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("add skips expired tokens", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		list := NewRedisRevocationList(db)
		list.nowFunc = func() time.Time { return now }

		require.NoError(t, list.Add(ctx, "jti-1", now.Add(-time.Second)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("is revoked", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		list := NewRedisRevocationList(db)

		mock.ExpectGet(revokedKeyPrefix + "jti-1").SetVal("1")
		mock.ExpectGet(revokedKeyPrefix + "jti-2").RedisNil()

		revoked, err := list.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, revoked)

		revoked, err = list.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		require.False(t, revoked)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		list := NewRedisRevocationList(db)

		mock.ExpectGet(revokedKeyPrefix + "jti-1").SetErr(errors.New("connection refused"))

		_, err := list.IsRevoked(ctx, "jti-1")
		require.EqualError(t, err, "connection refused")
	})
}
