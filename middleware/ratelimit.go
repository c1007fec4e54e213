package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Weiwf/distribute-limit/pkg/clientip"
	"github.com/Weiwf/distribute-limit/pkg/fixedwindow"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Guard makes the admit/reject decision
	Guard *fixedwindow.Guard
	// Policy is the limit enforced on every request passing through
	Policy fixedwindow.Policy
	// Target identifies the component owning the protected routes; it becomes
	// part of the counter key so limits on different targets stay independent
	Target string
	// Operation names the protected operation (default: METHOD + path)
	Operation func(r *http.Request) string
	// KeyExtractor resolves the caller identity (default: client IP from
	// context if the ClientIP middleware ran, otherwise resolved directly)
	KeyExtractor func(r *http.Request) string
	// ErrorHandler renders the rejection (default: 429 JSON with Retry-After)
	ErrorHandler func(w http.ResponseWriter, r *http.Request, res fixedwindow.Result)
	// SetHeaders determines whether to emit X-RateLimit-* headers
	SetHeaders bool
}

// RateLimit creates a rate limiting middleware with the provided
// configuration. It enforces the policy per caller identity before the
// wrapped handler runs. Panics on a missing guard or malformed policy so
// misconfiguration fails at route registration, not per request.
//
// Rejections become 429 Too Many Requests. When the counter store is
// unreachable the middleware answers 503 Service Unavailable: the guard
// fails closed by default, and a guard configured with fail-open reports
// such requests as admitted instead, so the 503 path never triggers.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Guard == nil {
		panic("ratelimit middleware: guard is required")
	}
	if err := cfg.Policy.Validate(); err != nil {
		panic(fmt.Sprintf("ratelimit middleware: %v", err))
	}

	if cfg.Operation == nil {
		cfg.Operation = func(r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(r *http.Request) string {
			if ip, ok := GetClientIP(r.Context()); ok {
				return ip
			}
			return clientip.GetIP(r)
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultRateLimitError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			id := fixedwindow.Identity{
				Caller:    cfg.KeyExtractor(r),
				Target:    cfg.Target,
				Operation: cfg.Operation(r),
			}

			res, err := cfg.Guard.Allow(r.Context(), id, &cfg.Policy)
			if err != nil {
				if errors.Is(err, fixedwindow.ErrStoreUnavailable) {
					writeJSONError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if cfg.SetHeaders {
				setRateLimitHeaders(w, res)
			}

			if !res.Admitted {
				cfg.ErrorHandler(w, r, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders emits the standard rate limit headers: current limit,
// remaining requests, and the unix timestamp when the window resets.
func setRateLimitHeaders(w http.ResponseWriter, res fixedwindow.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining(), 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
}

func defaultRateLimitError(w http.ResponseWriter, r *http.Request, res fixedwindow.Result) {
	if retryAfter := res.RetryAfter(); retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))
	}
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
