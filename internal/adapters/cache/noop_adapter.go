package cache

import (
	"context"
	"time"

	"github.com/zatekoja/localdeals/internal/domain/providers"
)

// NoopAdapter is used when Redis is not configured. Every read misses.
type NoopAdapter struct{}

// NewNoopAdapter creates a cache that stores nothing
func NewNoopAdapter() providers.CacheProvider {
	return NoopAdapter{}
}

func (NoopAdapter) Get(context.Context, string) ([]byte, error) {
	return nil, providers.ErrCacheMiss
}

func (NoopAdapter) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopAdapter) Delete(context.Context, ...string) error { return nil }

func (NoopAdapter) Exists(context.Context, string) (bool, error) { return false, nil }
