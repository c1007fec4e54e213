// Package middleware provides the HTTP interception surface for the rate
// limiter: standard net/http middleware that resolves the caller identity,
// consults the guard, and maps its decisions to HTTP responses.
//
// Every middleware has the shape func(http.Handler) http.Handler so it
// composes with any router built on the standard library:
//
//	guard := fixedwindow.NewGuard(fixedwindow.NewRedisCounter(client))
//
//	limited := middleware.RateLimit(middleware.RateLimitConfig{
//		Guard:      guard,
//		Policy:     fixedwindow.Policy{Window: time.Minute, Limit: 100},
//		Target:     "api",
//		SetHeaders: true,
//	})
//
//	handler := middleware.RequestID()(middleware.ClientIP()(limited(mux)))
//
// RateLimit maps rejections to 429 Too Many Requests with Retry-After, and
// store outages to 503 Service Unavailable (or pass-through when the guard
// is fail-open). ClientIP stores the resolved caller address in the request
// context, where RateLimit's default key extractor picks it up. RequestID
// tags each request for log correlation.
package middleware
