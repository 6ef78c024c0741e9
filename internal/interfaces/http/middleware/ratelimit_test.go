package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenLimiter(cfg RateLimitConfig, now *time.Time) *KeyedLimiter {
	l := NewKeyedLimiter(cfg)
	l.now = func() time.Time { return *now }
	return l
}

func TestKeyedLimiter_BurstThenReject(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := frozenLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}, &now)

	ok, remaining, _ := l.Reserve("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, remaining, _ = l.Reserve("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, wait := l.Reserve("10.0.0.1")
	assert.False(t, ok)
	assert.InDelta(t, time.Second, wait, float64(10*time.Millisecond))

	// Another client has its own bucket.
	ok, _, _ = l.Reserve("10.0.0.2")
	assert.True(t, ok)

	now = now.Add(time.Second)
	ok, _, _ = l.Reserve("10.0.0.1")
	assert.True(t, ok)
}

func TestKeyedLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := frozenLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute}, &now)

	l.Reserve("a")
	l.Reserve("b")
	require.Equal(t, 2, l.Len())

	now = now.Add(2 * time.Minute)
	l.Reserve("c")
	assert.Equal(t, 1, l.Len())
}

func TestKeyedLimiter_Unlimited(t *testing.T) {
	l := NewKeyedLimiter(RateLimitConfig{})
	for i := 0; i < 50; i++ {
		ok, _, _ := l.Reserve("x")
		require.True(t, ok)
	}
}

func TestKeyedLimiter_SetLimit(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := frozenLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, &now)

	ok, _, _ := l.Reserve("a")
	require.True(t, ok)
	ok, _, _ = l.Reserve("a")
	require.False(t, ok)

	l.SetLimit(1, 3)
	assert.Equal(t, 3, l.Burst())

	now = now.Add(3 * time.Second)
	for i := 0; i < 3; i++ {
		ok, _, _ = l.Reserve("a")
		assert.True(t, ok, "request %d", i)
	}
	ok, _, _ = l.Reserve("a")
	assert.False(t, ok)

	// Lifting the limit applies to new clients too.
	l.SetLimit(0, 0)
	for i := 0; i < 10; i++ {
		ok, _, _ = l.Reserve("b")
		assert.True(t, ok)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	handler := RateLimit(NewKeyedLimiter(cfg), cfg)(okHandler())

	req := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "192.0.2.7:51234"
		handler.ServeHTTP(w, r)
		return w
	}

	first := req("/api/v1/risks")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := req("/api/v1/risks")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "COMMON_007")

	assert.Equal(t, http.StatusOK, req("/healthz").Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", ClientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

//Personal.AI order the ending
