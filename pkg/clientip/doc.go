// Package clientip extracts real client IP addresses from HTTP requests.
//
// It checks proxy headers in priority order to find the actual client
// behind proxies, load balancers, and CDNs, which is what a rate limiter
// needs as its caller identity:
//
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry is the original client)
//  4. X-Real-IP (nginx and similar)
//  5. RemoteAddr (direct connection)
//
// All candidates are validated and normalized through net.ParseIP; the
// unspecified address is rejected. Resolution is total: when no header and
// no RemoteAddr yield a valid address, GetIP returns the Unknown sentinel
// instead of an error. Rate limiting on Unknown lumps all unresolvable
// callers into one bucket, which is the safe direction for a limiter.
package clientip
