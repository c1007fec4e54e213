package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weiwf/distribute-limit/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	d := 5 * time.Second
	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()

	start := time.Now().Add(-time.Second)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), time.Second)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	attr := logger.RequestID("req-1")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())

	empty := logger.RequestID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "client_ip", logger.ClientIP("10.0.0.1").Key)
	assert.Equal(t, "component", logger.Component("guard").Key)
	assert.Equal(t, "key", logger.Key("9:127.0.0.1").Key)
	assert.Equal(t, "limit", logger.Limit(5).Key)
	assert.Equal(t, "window", logger.Window(time.Minute).Key)
	assert.Equal(t, "outcome", logger.Outcome("reject").Key)
	assert.Equal(t, int64(7), logger.Count("count", 7).Value.Int64())
	assert.Equal(t, "retry_count", logger.RetryCount(2).Key)
}
