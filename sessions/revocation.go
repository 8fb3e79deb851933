package sessions

import (
	"context"
	"sync"
	"time"
)

// RevocationList records signed-out session tokens by jti until they would have expired anyway
type RevocationList interface {
	Add(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Cleanup(now time.Time) // Remove expired entries
}

// InMemoryRevocationList is a process local RevocationList
type InMemoryRevocationList struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

var _ RevocationList = (*InMemoryRevocationList)(nil)

func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		revoked: make(map[string]time.Time),
	}
}

func (c *InMemoryRevocationList) Add(_ context.Context, jti string, exp time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[jti] = exp
	return nil
}

func (c *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.revoked[jti]
	return exists, nil
}

func (c *InMemoryRevocationList) Cleanup(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for jti, exp := range c.revoked {
		if now.After(exp) {
			delete(c.revoked, jti)
		}
	}
}

func (c *InMemoryRevocationList) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.revoked)
}
