package geocoding

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
)

// Lookup outcomes reported to metrics.
const (
	OutcomeGlobal   = "global"
	OutcomeCacheHit = "cache_hit"
	OutcomeBackend  = "backend"
	OutcomeFallback = "fallback"
	OutcomeNeutral  = "neutral"
)

// SharedKeyPrefix namespaces geocode entries in the shared redis cache.
const SharedKeyPrefix = "geo:"

// Resolver maps locations to coordinates.  Results, fallbacks included, are
// memoised by the exact location string for the life of the process.
type Resolver struct {
	backend Backend
	limiter *rate.Limiter

	mu    sync.RWMutex
	cache map[string]Coordinate
	group singleflight.Group

	shared    redis.Cache
	sharedTTL time.Duration

	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics attaches application metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithMinInterval spaces backend requests at least d apart.  Zero removes the
// spacing.
func WithMinInterval(d time.Duration) Option {
	return func(r *Resolver) {
		if d <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithSharedCache adds a redis level behind the in-process map so several
// replicas share lookups.
func WithSharedCache(c redis.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.shared = c
		r.sharedTTL = ttl
	}
}

// NewResolver builds a Resolver over backend.  A nil backend resolves from the
// static table only.
func NewResolver(backend Backend, opts ...Option) *Resolver {
	r := &Resolver{
		backend: backend,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		cache:   make(map[string]Coordinate),
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("geocoding")
	return r
}

// Resolve never fails.  Empty and "global" locations map to Neutral without
// touching the backend.
func (r *Resolver) Resolve(ctx context.Context, location string) Coordinate {
	if IsGlobal(location) {
		prometheus.RecordGeocode(r.metrics, OutcomeGlobal)
		return Neutral
	}

	if c, ok := r.cached(location); ok {
		prometheus.RecordGeocode(r.metrics, OutcomeCacheHit)
		return c
	}

	v, _, _ := r.group.Do(location, func() (interface{}, error) {
		if c, ok := r.cached(location); ok {
			return c, nil
		}
		c, outcome := r.lookup(ctx, location)
		prometheus.RecordGeocode(r.metrics, outcome)

		r.mu.Lock()
		r.cache[location] = c
		r.mu.Unlock()
		return c, nil
	})
	return v.(Coordinate)
}

// Len returns the number of memoised locations.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Resolver) cached(location string) (Coordinate, bool) {
	r.mu.RLock()
	c, ok := r.cache[location]
	r.mu.RUnlock()
	return c, ok
}

func (r *Resolver) lookup(ctx context.Context, location string) (Coordinate, string) {
	if r.shared == nil {
		return r.search(ctx, location)
	}
	outcome := OutcomeCacheHit
	var c Coordinate
	err := r.shared.GetOrSet(ctx, SharedKeyPrefix+location, &c, r.sharedTTL, func(ctx context.Context) (interface{}, error) {
		found, o := r.search(ctx, location)
		outcome = o
		return found, nil
	})
	if err != nil {
		r.logger.Warn("shared geocode cache failed", logging.String("location", location), logging.Err(err))
		return r.search(ctx, location)
	}
	return c, outcome
}

func (r *Resolver) search(ctx context.Context, location string) (Coordinate, string) {
	if r.backend != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.Warn("geocode throttle aborted", logging.String("location", location), logging.Err(err))
		} else {
			c, err := r.backend.Search(ctx, location)
			if err == nil && c.valid() {
				return c, OutcomeBackend
			}
			r.logger.Warn("geocoding failed, using fallback", logging.String("location", location), logging.Err(err))
		}
	}

	if c, ok := Fallback(location); ok {
		r.logger.Debug("using fallback coordinates", logging.String("location", location))
		return c, OutcomeFallback
	}
	return Neutral, OutcomeNeutral
}

func (c Coordinate) valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng) && !math.IsInf(c.Lat, 0) && !math.IsInf(c.Lng, 0) &&
		c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

//Personal.AI order the ending
