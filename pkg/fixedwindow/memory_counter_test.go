package fixedwindow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weiwf/distribute-limit/pkg/fixedwindow"
)

func TestMemoryCounter_TryAcquire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("admits up to the limit then rejects", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()
		window := 10 * time.Second

		for i := int64(1); i <= 5; i++ {
			res, err := counter.TryAcquire(ctx, "key", 5, window)
			require.NoError(t, err)
			assert.True(t, res.Admitted)
			assert.Equal(t, i, res.Count)
		}

		res, err := counter.TryAcquire(ctx, "key", 5, window)
		require.NoError(t, err)
		assert.False(t, res.Admitted)
		assert.Equal(t, int64(5), res.Count)
		assert.Equal(t, int64(0), res.Remaining())
		assert.Positive(t, res.RetryAfter())
	})

	t.Run("rejection does not mutate the count", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()

		_, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)

		first, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)
		second, err := counter.TryAcquire(ctx, "key", 1, time.Minute)
		require.NoError(t, err)

		assert.False(t, first.Admitted)
		assert.False(t, second.Admitted)
		assert.Equal(t, first.Count, second.Count)
	})

	t.Run("expired record behaves as if it never existed", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()
		window := 50 * time.Millisecond

		for i := 0; i < 3; i++ {
			_, err := counter.TryAcquire(ctx, "key", 3, window)
			require.NoError(t, err)
		}
		res, err := counter.TryAcquire(ctx, "key", 3, window)
		require.NoError(t, err)
		require.False(t, res.Admitted)

		time.Sleep(window + 20*time.Millisecond)

		res, err = counter.TryAcquire(ctx, "key", 3, window)
		require.NoError(t, err)
		assert.True(t, res.Admitted)
		assert.Equal(t, int64(1), res.Count)
	})

	t.Run("admission refreshes the window", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()
		window := 100 * time.Millisecond

		_, err := counter.TryAcquire(ctx, "key", 10, window)
		require.NoError(t, err)

		// Touch the record just before expiry a few times; the count must
		// keep growing because every admission extends the window.
		for i := int64(2); i <= 4; i++ {
			time.Sleep(window / 2)
			res, err := counter.TryAcquire(ctx, "key", 10, window)
			require.NoError(t, err)
			assert.True(t, res.Admitted)
			assert.Equal(t, i, res.Count)
		}
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()

		_, err := counter.TryAcquire(ctx, "key", 0, time.Second)
		assert.ErrorIs(t, err, fixedwindow.ErrInvalidPolicy)

		_, err = counter.TryAcquire(ctx, "key", 1, 0)
		assert.ErrorIs(t, err, fixedwindow.ErrInvalidPolicy)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := counter.TryAcquire(cancelled, "key", 1, time.Second)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("independent keys do not interfere", func(t *testing.T) {
		t.Parallel()

		counter := fixedwindow.NewMemoryCounter()

		_, err := counter.TryAcquire(ctx, "a", 1, time.Minute)
		require.NoError(t, err)

		res, err := counter.TryAcquire(ctx, "b", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Admitted)
	})
}

func TestMemoryCounter_Cleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	counter := fixedwindow.NewMemoryCounter(
		fixedwindow.WithCleanupInterval(20 * time.Millisecond),
	)

	for i := 0; i < 10; i++ {
		_, err := counter.TryAcquire(ctx, string(rune('a'+i)), 5, 30*time.Millisecond)
		require.NoError(t, err)
	}
	require.Equal(t, 10, counter.Len())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = counter.Start(runCtx) }()

	assert.Eventually(t, func() bool {
		return counter.Len() == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, counter.Stop())
}

func TestMemoryCounter_Lifecycle(t *testing.T) {
	t.Parallel()

	counter := fixedwindow.NewMemoryCounter(
		fixedwindow.WithCleanupInterval(10 * time.Millisecond),
	)

	assert.Error(t, counter.Stop(), "stop before start must fail")

	go func() { _ = counter.Start(context.Background()) }()
	assert.Eventually(t, func() bool {
		return counter.Stop() == nil
	}, time.Second, 5*time.Millisecond)
}
