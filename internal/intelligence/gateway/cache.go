package gateway

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
)

// Cache stores completed responses by request hash.  Implementations never
// fail the caller: a broken cache behaves like a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// ─────────────────────────────────────────────────────────────────────────────
// In-process LRU
// ─────────────────────────────────────────────────────────────────────────────

type lruEntry struct {
	key     string
	value   string
	expires time.Time
}

// MemoryCache is a size-bounded LRU with per-entry expiry.
type MemoryCache struct {
	mu    sync.Mutex
	size  int
	ttl   time.Duration
	ll    *list.List
	items map[string]*list.Element
	now   func() time.Time
}

// NewMemoryCache returns an LRU holding at most size entries, each for ttl.
// A non-positive ttl keeps entries until evicted.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 512
	}
	return &MemoryCache{
		size:  size,
		ttl:   ttl,
		ll:    list.New(),
		items: make(map[string]*list.Element),
		now:   time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	e := el.Value.(*lruEntry)
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.ll.Remove(el)
		delete(c.items, key)
		return "", false
	}
	c.ll.MoveToFront(el)
	return e.value, true
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}
	if el, ok := c.items[key]; ok {
		e := el.Value.(*lruEntry)
		e.value, e.expires = value, expires
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&lruEntry{key: key, value: value, expires: expires})
	for c.ll.Len() > c.size {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*lruEntry).key)
	}
}

// Len returns the number of live and not yet purged entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// ─────────────────────────────────────────────────────────────────────────────
// Redis second level
// ─────────────────────────────────────────────────────────────────────────────

// RedisKeyPrefix namespaces model responses in the shared redis cache.
const RedisKeyPrefix = "llm:"

// RedisCache adapts the shared redis cache to Cache under RedisKeyPrefix.
type RedisCache struct {
	cache  redis.Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisCache wraps c.
func NewRedisCache(c redis.Cache, ttl time.Duration, logger logging.Logger) *RedisCache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RedisCache{cache: c, ttl: ttl, logger: logger}
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	var v string
	if err := r.cache.Get(ctx, RedisKeyPrefix+key, &v); err != nil {
		if err != redis.ErrCacheMiss {
			r.logger.Warn("llm cache read failed", logging.Err(err))
		}
		return "", false
	}
	return v, true
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key, value string) {
	if err := r.cache.Set(ctx, RedisKeyPrefix+key, value, r.ttl); err != nil {
		r.logger.Warn("llm cache write failed", logging.Err(err))
	}
}

// TieredCache checks each level in order and back-fills faster levels on a
// hit further down.
type TieredCache []Cache

// Get implements Cache.
func (t TieredCache) Get(ctx context.Context, key string) (string, bool) {
	for i, c := range t {
		if v, ok := c.Get(ctx, key); ok {
			for j := 0; j < i; j++ {
				t[j].Set(ctx, key, v)
			}
			return v, true
		}
	}
	return "", false
}

// Set implements Cache.
func (t TieredCache) Set(ctx context.Context, key, value string) {
	for _, c := range t {
		c.Set(ctx, key, value)
	}
}

//Personal.AI order the ending
