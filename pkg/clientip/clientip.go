package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no valid client IP can be resolved. Callers get
// a stable sentinel instead of an error so identity resolution can never
// fail a request on its own.
const Unknown = "unknown"

// Proxy headers in priority order. CDN headers come first because they are
// set by infrastructure the deployment controls, then the generic proxy
// headers.
var headerPriority = [...]string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the real client IP from the request, accounting for
// proxies, load balancers, and CDNs. Every candidate is validated and
// normalized; when nothing valid is found the function falls back to
// Unknown rather than failing.
func GetIP(r *http.Request) string {
	for _, header := range headerPriority {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may hold "client, proxy1, proxy2"; the leftmost
		// entry is the original client.
		if header == "X-Forwarded-For" {
			if i := strings.IndexByte(value, ','); i >= 0 {
				value = value[:i]
			}
		}

		if ip := normalize(value); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}

	return Unknown
}

// normalize validates the candidate and returns its canonical string form,
// or "" when it is not a usable address. The unspecified address (0.0.0.0,
// ::) signals "no client IP" and is rejected.
func normalize(candidate string) string {
	ip := net.ParseIP(strings.TrimSpace(candidate))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
