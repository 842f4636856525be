package cache_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/localdeals/internal/adapters/cache"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	redisclient "github.com/zatekoja/localdeals/internal/infrastructure/clients/redis"
)

func TestRedisAdapter_UnreachableServer(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	adapter := cache.NewRedisAdapter(redisclient.NewClientFrom(client))
	ctx := context.Background()

	_, err := adapter.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrCacheMiss)

	assert.Error(t, adapter.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, adapter.Delete(ctx))
}

func TestNoopAdapter(t *testing.T) {
	adapter := cache.NewNoopAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), time.Minute))

	_, err := adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	exists, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
