package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRateLimiter_AllowsUpToMax(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newLoginRateLimiter(3, time.Minute, func() time.Time { return base })

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.allow("10.0.0.1")
		require.True(t, allowed, "request %d", i)
	}

	allowed, retryAfter := limiter.allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestLoginRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newLoginRateLimiter(2, time.Minute, func() time.Time { return now })

	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.1")

	allowed, _ := limiter.allow("10.0.0.1")
	require.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, _ = limiter.allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestLoginRateLimiter_SourcesIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newLoginRateLimiter(1, time.Minute, func() time.Time { return base })

	allowed, _ := limiter.allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.allow("10.0.0.1")
	require.False(t, allowed)

	allowed, _ = limiter.allow("10.0.0.2")
	assert.True(t, allowed)
}

func TestLoginRateLimiter_Middleware429WithRetryAfter(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newLoginRateLimiter(1, time.Minute, func() time.Time { return base })

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := limiter.middleware(next)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.4:5000"
	assert.Equal(t, "192.0.2.4:5000", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.2")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
