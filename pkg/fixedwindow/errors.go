package fixedwindow

import (
	"errors"
	"fmt"
	"time"
)

// Package-level error definitions for rate limiter operations.
// Check them with errors.Is; LimitExceededError carries the rejection details.
var (
	ErrInvalidPolicy     = errors.New("invalid rate limit policy")
	ErrInvalidIdentity   = errors.New("invalid identity")
	ErrStoreUnavailable  = errors.New("counter store unavailable")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// LimitExceededError reports a rejected invocation together with the key and
// policy parameters that rejected it. It unwraps to ErrRateLimitExceeded.
type LimitExceededError struct {
	Key    string
	Limit  int64
	Window time.Duration
	Count  int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: key %q at %d of %d per %s", e.Key, e.Count, e.Limit, e.Window)
}

func (e *LimitExceededError) Unwrap() error { return ErrRateLimitExceeded }
