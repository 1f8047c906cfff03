package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscan/backend/pkg/config"
)

func TestDisabledClientIsNoOp(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	defer client.Close()

	assert.False(t, client.Enabled())

	cache := NewCache(client, "test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"v": 1}, time.Minute))

	var dest map[string]int
	found, err := cache.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found, "disabled cache always misses")

	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "metrics:BTC", MetricsKey("BTC"))
	assert.Equal(t, "market:overview", OverviewKey())
}
