package fixedwindow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Operation is the unit of work a Guard protects.
type Operation func(ctx context.Context) error

// Guard intercepts invocations of protected operations and enforces their
// policies. It holds no shared mutable state of its own; every call is a
// self-contained decision against the Counter, so a single Guard can be
// shared by any number of goroutines.
type Guard struct {
	counter  Counter
	failOpen bool
	logger   *slog.Logger
	recorder MetricsRecorder
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithFailOpen controls the behavior when the counter store is unreachable.
// The default is fail-closed: the call fails with ErrStoreUnavailable and
// the protected operation does not run, since admitting unlimited traffic
// during an outage defeats the limiter's purpose. Fail-open trades that
// protection for availability: store failures are logged and the operation
// runs as if admitted.
func WithFailOpen(failOpen bool) GuardOption {
	return func(g *Guard) {
		g.failOpen = failOpen
	}
}

// WithLogger sets the logger for decision and failure events.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder injects a metrics backend for decision counters and acquire
// latency.
func WithRecorder(recorder MetricsRecorder) GuardOption {
	return func(g *Guard) {
		if recorder != nil {
			g.recorder = recorder
		}
	}
}

// NewGuard constructs a Guard around the given counter.
func NewGuard(counter Counter, opts ...GuardOption) *Guard {
	g := &Guard{
		counter:  counter,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: NoOpRecorder{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Allow makes the admit/reject decision for one invocation without running
// anything. HTTP middleware that wraps handlers directly uses this; code
// that can hand the Guard a closure should prefer Do.
//
// A nil policy always admits without consulting the store. When the guard
// is fail-open, a store failure is logged and reported as an admitted
// Result with a nil error.
func (g *Guard) Allow(ctx context.Context, id Identity, policy *Policy) (Result, error) {
	if policy == nil {
		return Result{Admitted: true}, nil
	}
	_, res, err := g.check(ctx, id, *policy)
	return res, err
}

// Do enforces policy around op. A nil policy passes through unchanged. On
// admission op runs exactly once and its result is returned; on rejection
// op does not run and Do fails with a *LimitExceededError. Exactly one
// counter call is made per guarded invocation.
func (g *Guard) Do(ctx context.Context, id Identity, policy *Policy, op Operation) error {
	if policy == nil {
		return op(ctx)
	}

	key, res, err := g.check(ctx, id, *policy)
	if err != nil {
		return err
	}

	if !res.Admitted {
		return &LimitExceededError{
			Key:    key,
			Limit:  policy.Limit,
			Window: policy.Window,
			Count:  res.Count,
		}
	}

	return op(ctx)
}

// check derives the key, consults the counter, and applies the fail-open
// policy. It is the single decision point; there is no state machine beyond
// it.
func (g *Guard) check(ctx context.Context, id Identity, policy Policy) (string, Result, error) {
	if err := policy.Validate(); err != nil {
		return "", Result{}, err
	}

	key, err := DeriveKey(id, policy.ID)
	if err != nil {
		return "", Result{}, err
	}

	start := time.Now()
	res, err := g.counter.TryAcquire(ctx, key, policy.Limit, policy.Window)
	g.recorder.Observe("ratelimit_acquire_seconds", time.Since(start).Seconds(), nil)

	if err != nil {
		g.recorder.Add("ratelimit_decisions", 1, map[string]string{"outcome": "error", "operation": id.Operation})
		if g.failOpen && errors.Is(err, ErrStoreUnavailable) {
			g.logger.WarnContext(ctx, "counter store unavailable, failing open",
				slog.String("key", key),
				slog.Any("error", err))
			return key, Result{Admitted: true, Limit: policy.Limit, Window: policy.Window}, nil
		}
		return key, Result{}, err
	}

	outcome := "admit"
	if !res.Admitted {
		outcome = "reject"
		g.logger.DebugContext(ctx, "rate limit exceeded",
			slog.String("key", key),
			slog.Int64("count", res.Count),
			slog.Int64("limit", res.Limit))
	}
	g.recorder.Add("ratelimit_decisions", 1, map[string]string{"outcome": outcome, "operation": id.Operation})

	return key, res, nil
}
