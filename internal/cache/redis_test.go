package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func skipIfNoRedis(t *testing.T) {
	if os.Getenv("REDIS_TEST_ADDR") == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}
}

func TestRedisCacheSetGet(t *testing.T) {
	skipIfNoRedis(t)

	c, err := NewRedisCache(&Options{
		RedisAddr:  os.Getenv("REDIS_TEST_ADDR"),
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "planner-test-key", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "planner-test-key")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "planner-test-key"))
}
