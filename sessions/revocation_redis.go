package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RedisRevocationList shares sign-outs between instances. Keys expire with the token.
type RedisRevocationList struct {
	client  goredis.Cmdable
	nowFunc func() time.Time
}

var _ RevocationList = (*RedisRevocationList)(nil)

func NewRedisRevocationList(client goredis.Cmdable) *RedisRevocationList {
	return &RedisRevocationList{
		client:  client,
		nowFunc: time.Now,
	}
}

// NewRedisClient connects to addr and pings it within timeout
func NewRedisClient(ctx context.Context, addr, password string, timeout time.Duration) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[sessions NewRedisClient] ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisRevocationList) Add(ctx context.Context, jti string, exp time.Time) error {
	ttl := exp.Sub(r.nowFunc())
	if ttl <= 0 {
		// Already expired, Validate rejects it without help
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, revokedKeyPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, goredis.Nil):
		return false, nil
	default:
		return false, err
	}
}

// Cleanup is a no-op; redis expires the keys
func (r *RedisRevocationList) Cleanup(time.Time) {}
