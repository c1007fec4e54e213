package fixedwindow

import (
	"fmt"
	"time"
)

// Policy describes one fixed-window limit. It is immutable once attached to
// an operation; many operations may share the same Policy value, and a
// policy has no identity beyond its fields.
type Policy struct {
	// ID distinguishes multiple independent limits applied to the same
	// operation. It may be empty.
	ID string

	// Window is the fixed window duration. The record expires a full Window
	// after the last admitted request, not on calendar boundaries.
	Window time.Duration

	// Limit is the maximum number of admitted requests per window.
	Limit int64
}

// Validate reports whether the policy is well formed. Call it when the
// policy is registered so malformed limits fail during setup rather than on
// every request.
func (p Policy) Validate() error {
	if p.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidPolicy, p.Window)
	}
	if p.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPolicy, p.Limit)
	}
	return nil
}
