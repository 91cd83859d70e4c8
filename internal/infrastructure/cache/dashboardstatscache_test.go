package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisDashboardStatsCache_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisDashboardStatsCache(client, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache is a miss")

	want := &order.Stats{MRR: 137.45, ActiveOrders: 3, TotalOrders: 5, UniqueClients: 2}
	require.NoError(t, c.Set(ctx, want))

	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, dashboardStatsKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDashboardStatsCache_MalformedEntryIsMiss(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisDashboardStatsCache(client, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, client.HSet(ctx, dashboardStatsKey, fieldMRR, "not-a-number").Err())

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
