// Package fixedwindow provides distributed fixed-window rate limiting backed
// by a shared counter store.
//
// Multiple independent application instances agree on whether a logical
// caller has exhausted its quota within a configured window by sharing a
// single counter per (caller, operation, policy) tuple. All mutable state
// lives in the store; the package itself is stateless per call, which makes
// it safe to use from any number of processes without coordination beyond
// the store.
//
// # Core Types
//
// Policy describes one limit:
//
//   - Limit: maximum number of admitted requests per window
//   - Window: the window duration
//   - ID: distinguishes multiple independent limits on the same operation
//     (may be empty)
//
// Identity names who is calling what:
//
//   - Caller: the client identity, typically a resolved network address
//   - Target: the component owning the operation
//   - Operation: the specific operation name (must not be empty)
//
// Counter is the atomic check-and-increment primitive. Two implementations
// share the contract:
//
//   - RedisCounter: distributed, backed by a server-side Lua script so the
//     read/check/increment/refresh cycle is a single atomic unit. Use this
//     in production when the limit must hold across replicas.
//   - MemoryCounter: in-process, mutex-protected. Useful for tests and
//     single-instance deployments; its state is not shared across replicas.
//
// Guard ties the pieces together: it derives the counter key, consults the
// counter, and either runs the protected operation or rejects the call.
//
// # Window Semantics
//
// This is a fixed-window counter, not a sliding log. A successful increment
// refreshes the record's expiry to a full window from now, so the window
// resets relative to the last admitted request rather than on calendar
// boundaries. Near a boundary a caller can therefore burst up to twice the
// limit. That tradeoff buys O(1) state per key and is the intended
// behavior, not something callers should attempt to correct for.
//
// A rejected call mutates nothing: it neither inflates the count nor
// extends the window, so a caller that is already over quota cannot keep
// pushing its own reset further out.
//
// # Usage
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	counter := fixedwindow.NewRedisCounter(client)
//	guard := fixedwindow.NewGuard(counter)
//
//	policy := fixedwindow.Policy{Window: 10 * time.Second, Limit: 5}
//	id := fixedwindow.Identity{
//		Caller:    clientIP,
//		Target:    "billing",
//		Operation: "create_invoice",
//	}
//
//	err := guard.Do(ctx, id, &policy, func(ctx context.Context) error {
//		return createInvoice(ctx, req)
//	})
//	var exceeded *fixedwindow.LimitExceededError
//	if errors.As(err, &exceeded) {
//		// map to HTTP 429, Retry-After, etc.
//	}
//
// # Error Policy
//
// The guard never silently admits on an ambiguous state. When the store is
// unreachable the call fails with ErrStoreUnavailable and the protected
// operation does not run (fail-closed); admitting unlimited traffic during
// an outage would defeat the limiter's purpose. Deployments that prefer
// availability over protection can opt in to fail-open with
// WithFailOpen(true), in which case store failures are logged and the
// operation runs anyway.
//
// # Concurrency
//
// Correctness reduces entirely to the atomicity of Counter.TryAcquire.
// RedisCounter delegates it to Redis script execution; MemoryCounter holds
// a mutex for the full read-check-increment cycle. No caller-side locking
// is needed or performed between calls.
package fixedwindow
