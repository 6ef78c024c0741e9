package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig bounds requests per client.  Every enrichment request can
// fan out into several model calls, so the default is low.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// KeyFunc picks the client key.  Defaults to ClientIP.
	KeyFunc   func(r *http.Request) string
	SkipPaths []string
	// IdleTTL drops limiters of clients not seen for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig allows 2 req/s with a burst of 10 per client.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 2,
		Burst:             10,
		KeyFunc:           ClientIP,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		IdleTTL:           10 * time.Minute,
	}
}

// ClientIP keys on the first X-Forwarded-For hop, X-Real-IP, or the remote
// address without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter holds one token bucket per client key.
type KeyedLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	visitors map[string]*visitor
	now      func() time.Time
	lastGC   time.Time
}

// NewKeyedLimiter builds a limiter from config.
func NewKeyedLimiter(config RateLimitConfig) *KeyedLimiter {
	limit, burst := normalizeLimit(config.RequestsPerSecond, config.Burst)
	return &KeyedLimiter{
		limit:    limit,
		burst:    burst,
		idleTTL:  config.IdleTTL,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func normalizeLimit(rps float64, burst int) (rate.Limit, int) {
	if burst <= 0 {
		burst = 1
	}
	if rps <= 0 {
		return rate.Inf, burst
	}
	return rate.Limit(rps), burst
}

// SetLimit changes the budget of every current and future client.  Used when
// the configuration is reloaded.
func (l *KeyedLimiter) SetLimit(rps float64, burst int) {
	limit, burst := normalizeLimit(rps, burst)
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.limit, l.burst = limit, burst
	for _, v := range l.visitors {
		v.limiter.SetLimitAt(now, limit)
		v.limiter.SetBurstAt(now, burst)
	}
}

// Burst returns the current bucket size.
func (l *KeyedLimiter) Burst() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}

// Reserve takes a token for key.  It reports whether the request may pass,
// the tokens left and, when rejected, how long until a token is available.
func (l *KeyedLimiter) Reserve(key string) (bool, int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit == rate.Inf {
		return true, l.burst, 0
	}
	now := l.now()
	l.gc(now)
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, delay
	}
	remaining := int(math.Floor(v.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, 0
}

// Len returns the number of tracked clients.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *KeyedLimiter) gc(now time.Time) {
	if l.idleTTL <= 0 || now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	l.lastGC = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, k)
		}
	}
}

// RateLimit rejects clients over their budget with 429 and Retry-After.
func RateLimit(limiter *KeyedLimiter, config RateLimitConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			ok, remaining, wait := limiter.Reserve(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"COMMON_007","message":"rate limit exceeded, please retry later"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
