package fixedwindow_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weiwf/distribute-limit/pkg/fixedwindow"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestRedisCounter_TryAcquire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("admits sequentially up to the limit", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client)
		window := 10 * time.Second

		for i := int64(1); i <= 5; i++ {
			res, err := counter.TryAcquire(ctx, "key", 5, window)
			require.NoError(t, err)
			assert.True(t, res.Admitted)
			assert.Equal(t, i, res.Count)
			assert.Equal(t, 5-i, res.Remaining())
		}

		res, err := counter.TryAcquire(ctx, "key", 5, window)
		require.NoError(t, err)
		assert.False(t, res.Admitted)
		assert.Equal(t, int64(5), res.Count)
	})

	t.Run("rejection leaves count and ttl untouched", func(t *testing.T) {
		t.Parallel()

		client, server := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client)

		_, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)

		ttlBefore := server.TTL("ratelimit:key")

		first, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)
		second, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)

		assert.False(t, first.Admitted)
		assert.False(t, second.Admitted)
		assert.Equal(t, first.Count, second.Count)
		assert.Equal(t, ttlBefore, server.TTL("ratelimit:key"), "rejected calls must not refresh expiry")
	})

	t.Run("record expires after the window", func(t *testing.T) {
		t.Parallel()

		client, server := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client)
		window := 10 * time.Second

		for i := 0; i < 3; i++ {
			_, err := counter.TryAcquire(ctx, "key", 3, window)
			require.NoError(t, err)
		}
		res, err := counter.TryAcquire(ctx, "key", 3, window)
		require.NoError(t, err)
		require.False(t, res.Admitted)

		server.FastForward(window + time.Second)

		res, err = counter.TryAcquire(ctx, "key", 3, window)
		require.NoError(t, err)
		assert.True(t, res.Admitted)
		assert.Equal(t, int64(1), res.Count, "count must reset after expiry")
	})

	t.Run("admission refreshes expiry to a full window", func(t *testing.T) {
		t.Parallel()

		client, server := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client)
		window := 10 * time.Second

		_, err := counter.TryAcquire(ctx, "key", 10, window)
		require.NoError(t, err)

		// Just before expiry another admission arrives; the record must
		// survive a full window beyond it.
		server.FastForward(window - time.Second)

		res, err := counter.TryAcquire(ctx, "key", 10, window)
		require.NoError(t, err)
		require.True(t, res.Admitted)
		assert.Equal(t, int64(2), res.Count)
		assert.Equal(t, window, server.TTL("ratelimit:key"))
	})

	t.Run("key prefix option", func(t *testing.T) {
		t.Parallel()

		client, server := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client, fixedwindow.WithKeyPrefix("myapp:rl:"))

		_, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)

		assert.True(t, server.Exists("myapp:rl:key"))
		assert.False(t, server.Exists("ratelimit:key"))
	})

	t.Run("store unavailable surfaces a distinct error", func(t *testing.T) {
		t.Parallel()

		client, server := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client, fixedwindow.WithTimeout(200*time.Millisecond))

		server.Close()

		_, err := counter.TryAcquire(ctx, "key", 5, time.Minute)
		require.Error(t, err)
		assert.ErrorIs(t, err, fixedwindow.ErrStoreUnavailable)
	})

	t.Run("cancelled context aborts the call", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := counter.TryAcquire(cancelled, "key", 5, time.Minute)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects invalid parameters without touching the store", func(t *testing.T) {
		t.Parallel()

		client, server := newTestRedis(t)
		counter := fixedwindow.NewRedisCounter(client)

		_, err := counter.TryAcquire(ctx, "key", 0, time.Minute)
		assert.ErrorIs(t, err, fixedwindow.ErrInvalidPolicy)
		assert.False(t, server.Exists("ratelimit:key"))
	})
}
