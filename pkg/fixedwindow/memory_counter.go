package fixedwindow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// record holds one window counter. Expiry is the only destructor: a record
// past expiresAt is treated as if it never existed.
type record struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounter is an in-process Counter. It is safe for concurrent use by
// multiple goroutines, but its state is local to the process and does not
// enforce a global limit across replicas. Use RedisCounter for that; use
// MemoryCounter in tests and single-instance deployments.
type MemoryCounter struct {
	mu      sync.Mutex
	records map[string]*record

	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// MemoryCounterOption configures a MemoryCounter.
type MemoryCounterOption func(*MemoryCounter)

// WithCleanupInterval sets how often the background cleanup removes expired
// records (default 5m). Cleanup only reclaims memory; expiry itself is
// enforced lazily on every TryAcquire, so running without Start is valid.
func WithCleanupInterval(interval time.Duration) MemoryCounterOption {
	return func(mc *MemoryCounter) {
		mc.cleanupInterval = interval
	}
}

// WithShutdownTimeout sets how long Stop waits for an in-progress cleanup
// pass to finish (default 30s).
func WithShutdownTimeout(timeout time.Duration) MemoryCounterOption {
	return func(mc *MemoryCounter) {
		if timeout > 0 {
			mc.shutdownTimeout = timeout
		}
	}
}

// WithMemoryLogger sets the logger for cleanup lifecycle events.
func WithMemoryLogger(logger *slog.Logger) MemoryCounterOption {
	return func(mc *MemoryCounter) {
		if logger != nil {
			mc.logger = logger
		}
	}
}

// NewMemoryCounter creates an empty in-process counter. Call Start to begin
// background cleanup of expired records.
func NewMemoryCounter(opts ...MemoryCounterOption) *MemoryCounter {
	mc := &MemoryCounter{
		records:         make(map[string]*record),
		cleanupInterval: 5 * time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(mc)
	}

	return mc
}

// TryAcquire implements Counter. The mutex covers the full
// read-check-increment cycle, which gives the same atomicity the Redis
// script provides server-side.
func (mc *MemoryCounter) TryAcquire(ctx context.Context, key string, limit int64, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{}, fmt.Errorf("%w: limit %d, window %s", ErrInvalidPolicy, limit, window)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()

	rec, ok := mc.records[key]
	if ok && !now.Before(rec.expiresAt) {
		delete(mc.records, key)
		rec, ok = nil, false
	}

	if ok && rec.count+1 > limit {
		return Result{
			Admitted:   false,
			Count:      rec.count,
			Limit:      limit,
			Window:     window,
			ResetAfter: rec.expiresAt.Sub(now),
		}, nil
	}

	if !ok {
		rec = &record{}
		mc.records[key] = rec
	}
	rec.count++
	rec.expiresAt = now.Add(window)

	return Result{
		Admitted:   true,
		Count:      rec.count,
		Limit:      limit,
		Window:     window,
		ResetAfter: window,
	}, nil
}

// Len returns the number of live records, expired ones included until the
// next cleanup pass or touch.
func (mc *MemoryCounter) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.records)
}

// Start runs the background cleanup loop until ctx is cancelled or Stop is
// called. It blocks; run it in a goroutine or under an errgroup.
func (mc *MemoryCounter) Start(ctx context.Context) error {
	mc.mu.Lock()
	if mc.cancel != nil {
		mc.mu.Unlock()
		return fmt.Errorf("memory counter already started")
	}
	if mc.cleanupInterval <= 0 {
		mc.mu.Unlock()
		return fmt.Errorf("cleanup interval must be > 0, got %v", mc.cleanupInterval)
	}
	mc.ctx, mc.cancel = context.WithCancel(ctx)
	mc.mu.Unlock()

	mc.logger.InfoContext(mc.ctx, "memory counter cleanup started",
		slog.Duration("cleanup_interval", mc.cleanupInterval))

	ticker := time.NewTicker(mc.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-mc.ctx.Done():
			mc.logger.InfoContext(context.Background(), "memory counter cleanup stopping")
			return mc.ctx.Err()
		case <-ticker.C:
			mc.wg.Add(1)
			mc.cleanup()
			mc.wg.Done()
		}
	}
}

// Stop cancels the cleanup loop and waits up to the shutdown timeout for an
// in-progress pass to finish.
func (mc *MemoryCounter) Stop() error {
	mc.mu.Lock()
	if mc.cancel == nil {
		mc.mu.Unlock()
		return fmt.Errorf("memory counter not started")
	}
	cancel := mc.cancel
	mc.cancel = nil
	mc.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		mc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(mc.shutdownTimeout):
		return fmt.Errorf("shutdown timeout exceeded after %s", mc.shutdownTimeout)
	}
}

func (mc *MemoryCounter) cleanup() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, rec := range mc.records {
		if !now.Before(rec.expiresAt) {
			delete(mc.records, key)
			removed++
		}
	}

	if removed > 0 {
		mc.logger.Debug("memory counter cleanup pass",
			slog.Int("removed", removed),
			slog.Int("remaining", len(mc.records)))
	}
}
