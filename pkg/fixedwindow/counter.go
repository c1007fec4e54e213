package fixedwindow

import (
	"context"
	"time"
)

// Counter is the atomic check-and-increment primitive. TryAcquire executes
// as a single indivisible unit against the backing store: it reads the
// current count for key (missing key means zero), rejects without mutating
// anything when count+1 would exceed limit, and otherwise increments the
// count and refreshes the record's expiry to a full window from now.
//
// Implementations must never silently admit or reject on infrastructure
// failure; they return an error wrapping ErrStoreUnavailable and leave the
// fail-open/fail-closed decision to the caller.
type Counter interface {
	TryAcquire(ctx context.Context, key string, limit int64, window time.Duration) (Result, error)
}

// Result describes the outcome of one TryAcquire call. Its fields are
// intended to be directly consumable by HTTP layers emitting X-RateLimit-*
// headers.
type Result struct {
	// Admitted reports whether the call was within the limit.
	Admitted bool

	// Count is the stored counter value after the decision was applied.
	// Rejected calls leave the counter unchanged, so on rejection Count
	// equals the number of previously admitted requests in the window.
	Count int64

	// Limit echoes the limit the decision was made against.
	Limit int64

	// Window echoes the window the decision was made against.
	Window time.Duration

	// ResetAfter is the time until the current record expires. Zero when
	// the record does not exist.
	ResetAfter time.Duration
}

// Remaining returns how many requests are left in the current window,
// clamped to zero.
func (r Result) Remaining() int64 {
	return max(0, r.Limit-r.Count)
}

// RetryAfter returns how long a rejected caller should wait before
// retrying. It is zero for admitted calls.
func (r Result) RetryAfter() time.Duration {
	if r.Admitted {
		return 0
	}
	return r.ResetAfter
}
