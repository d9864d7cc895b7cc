package cache

import (
	"context"
	"time"
)

// NullCache keeps nothing, so every lookup misses. It backs --no-cache and
// cache.backend "none", and stands in when the CLI cannot resolve a cache
// directory.
type NullCache struct {
	reason string
}

// NewNullCache returns a NullCache with no recorded reason.
func NewNullCache() Cache {
	return Disabled("")
}

// Disabled returns a NullCache that remembers why caching is off.
func Disabled(reason string) *NullCache {
	return &NullCache{reason: reason}
}

// Reason reports why caching is off, or "" if no reason was given.
func (c *NullCache) Reason() string {
	return c.reason
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
