package fixedwindow

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed fixedwindow.lua
var acquireScript string

const (
	defaultKeyPrefix = "ratelimit:"
	defaultTimeout   = 5 * time.Second
)

// RedisCounter is a distributed Counter backed by Redis. The whole
// read/check/increment/refresh cycle runs as a server-side Lua script, so
// concurrent TryAcquire calls on the same key are serialized by Redis and
// the limit holds across any number of application instances.
type RedisCounter struct {
	client  *redis.Client
	script  *redis.Script
	prefix  string
	timeout time.Duration
}

// RedisCounterOption configures a RedisCounter.
type RedisCounterOption func(*RedisCounter)

// WithKeyPrefix sets the prefix prepended to every counter key
// (default "ratelimit:").
func WithKeyPrefix(prefix string) RedisCounterOption {
	return func(c *RedisCounter) {
		c.prefix = prefix
	}
}

// WithTimeout bounds each TryAcquire call. Once the deadline passes the
// call surfaces ErrStoreUnavailable instead of blocking on a slow store
// (default 5s).
func WithTimeout(timeout time.Duration) RedisCounterOption {
	return func(c *RedisCounter) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewRedisCounter constructs a RedisCounter using the provided client. The
// script is loaded lazily on first use; go-redis falls back to EVAL when the
// Redis script cache has been flushed.
func NewRedisCounter(client *redis.Client, opts ...RedisCounterOption) *RedisCounter {
	c := &RedisCounter{
		client:  client,
		script:  redis.NewScript(acquireScript),
		prefix:  defaultKeyPrefix,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TryAcquire implements Counter. The caller's context is passed through to
// Redis so cancellation aborts the outbound call; the increment either fully
// commits or not at all, so no compensating action is needed.
func (c *RedisCounter) TryAcquire(ctx context.Context, key string, limit int64, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{}, fmt.Errorf("%w: limit %d, window %s", ErrInvalidPolicy, limit, window)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.script.Run(ctx, c.client, []string{c.prefix + key}, limit, window.Milliseconds()).Result()
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}

	values, ok := raw.([]any)
	if !ok || len(values) != 3 {
		return Result{}, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, raw)
	}

	admitted, _ := values[0].(int64)
	count, _ := values[1].(int64)
	resetMs, _ := values[2].(int64)

	return Result{
		Admitted:   admitted == 1,
		Count:      count,
		Limit:      limit,
		Window:     window,
		ResetAfter: time.Duration(resetMs) * time.Millisecond,
	}, nil
}
