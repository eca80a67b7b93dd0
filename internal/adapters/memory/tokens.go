package memory

import (
	"context"
	"sync"
	"time"
)

// TokenCache is a process-local gateway token cache for tests and single-node runs.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

func (c *TokenCache) Get(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || time.Now().UTC().After(c.expiresAt) {
		return "", nil
	}
	return c.token, nil
}

func (c *TokenCache) Set(_ context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = time.Now().UTC().Add(ttl)
	return nil
}
