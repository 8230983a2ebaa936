package http

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// throttleMaxSources caps the number of tracked client addresses to keep the
// throttle's memory bounded under address-spoofing traffic.
const throttleMaxSources = 5000

// loginRateLimiter is a sliding-window request throttle keyed by client
// address. It protects the credential-bearing endpoints against
// high-frequency probing from a single source; the per-account lockout in
// the security core handles distributed guessing against one account.
type loginRateLimiter struct {
	mu      sync.Mutex
	maxHits int
	window  time.Duration
	hits    map[string][]time.Time

	now func() time.Time
}

func newLoginRateLimiter(maxHits int, window time.Duration, now func() time.Time) *loginRateLimiter {
	if maxHits <= 0 {
		maxHits = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return &loginRateLimiter{
		maxHits: maxHits,
		window:  window,
		hits:    make(map[string][]time.Time),
		now:     now,
	}
}

func (l *loginRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := l.allow(clientIP(r))
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *loginRateLimiter) allow(ip string) (bool, time.Duration) {
	now := l.now().UTC()
	threshold := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.hits[ip]
	filtered := make([]time.Time, 0, len(hits)+1)
	for _, hit := range hits {
		if hit.After(threshold) {
			filtered = append(filtered, hit)
		}
	}

	if len(filtered) >= l.maxHits {
		retryAfter := filtered[0].Add(l.window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		l.hits[ip] = filtered
		return false, retryAfter
	}

	filtered = append(filtered, now)
	l.hits[ip] = filtered

	if len(l.hits) > throttleMaxSources {
		for key, value := range l.hits {
			if len(value) == 0 || value[len(value)-1].Before(threshold) {
				delete(l.hits, key)
			}
		}
	}

	return true, 0
}

// clientIP prefers the first X-Forwarded-For hop set by the edge proxy and
// falls back to the connection's remote address.
func clientIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return "unknown"
}
