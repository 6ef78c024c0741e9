package geocoding

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

type countingBackend struct {
	calls int32
	fn    func(query string) (Coordinate, error)
}

func (b *countingBackend) Search(_ context.Context, query string) (Coordinate, error) {
	atomic.AddInt32(&b.calls, 1)
	return b.fn(query)
}

func (b *countingBackend) count() int { return int(atomic.LoadInt32(&b.calls)) }

func failing() *countingBackend {
	return &countingBackend{fn: func(string) (Coordinate, error) {
		return Coordinate{}, errors.New(errors.ErrCodeGeocodingFailed, "down")
	}}
}

func TestResolve_GlobalAndEmpty(t *testing.T) {
	b := failing()
	r := NewResolver(b, WithMinInterval(0))
	ctx := context.Background()

	for _, loc := range []string{"", "Global", "GLOBAL", " global "} {
		assert.Equal(t, Coordinate{Lat: 20, Lng: 0}, r.Resolve(ctx, loc), loc)
	}
	assert.Equal(t, 0, b.count())
}

func TestResolve_BackendHit(t *testing.T) {
	b := &countingBackend{fn: func(q string) (Coordinate, error) {
		return Coordinate{Lat: 13.08, Lng: 80.27}, nil
	}}
	r := NewResolver(b, WithMinInterval(0))

	c := r.Resolve(context.Background(), "Chennai, India")
	assert.Equal(t, Coordinate{Lat: 13.08, Lng: 80.27}, c)
	assert.Equal(t, 1, b.count())
}

func TestResolve_FallbackTable(t *testing.T) {
	r := NewResolver(failing(), WithMinInterval(0))
	ctx := context.Background()

	assert.Equal(t, Coordinate{Lat: 13.0827, Lng: 80.2707}, r.Resolve(ctx, "Chennai, India"))
	assert.Equal(t, Coordinate{Lat: -23.5505, Lng: -46.6333}, r.Resolve(ctx, "São Paulo, Brazil"))
	assert.Equal(t, Coordinate{Lat: 1.3521, Lng: 103.8198}, r.Resolve(ctx, "SINGAPORE"))
	assert.Equal(t, Coordinate{Lat: 53.5511, Lng: 9.9937}, r.Resolve(ctx, "Hamburg"))
	assert.Equal(t, Neutral, r.Resolve(ctx, "Atlantis"))
}

func TestResolve_InvalidBackendCoordinatesFallBack(t *testing.T) {
	b := &countingBackend{fn: func(string) (Coordinate, error) {
		return Coordinate{Lat: math.NaN(), Lng: 0}, nil
	}}
	r := NewResolver(b, WithMinInterval(0))
	assert.Equal(t, Coordinate{Lat: 35.6895, Lng: 139.6917}, r.Resolve(context.Background(), "Tokyo, Japan"))
}

func TestResolve_NilBackendUsesTable(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, Coordinate{Lat: 25.2048, Lng: 55.2708}, r.Resolve(context.Background(), "Dubai, UAE"))
}

func TestResolve_SecondCallMakesNoRequest(t *testing.T) {
	b := &countingBackend{fn: func(string) (Coordinate, error) {
		return Coordinate{Lat: 51.9, Lng: 4.4}, nil
	}}
	r := NewResolver(b, WithMinInterval(0))
	ctx := context.Background()

	first := r.Resolve(ctx, "Rotterdam, Netherlands")
	second := r.Resolve(ctx, "Rotterdam, Netherlands")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, b.count())

	// Fallback results are memoised too.
	f := failing()
	r2 := NewResolver(f, WithMinInterval(0))
	r2.Resolve(ctx, "Nowhere")
	r2.Resolve(ctx, "Nowhere")
	assert.Equal(t, 1, f.count())
	assert.Equal(t, 1, r2.Len())
}

func TestResolve_ConcurrentCallersShareOneLookup(t *testing.T) {
	release := make(chan struct{})
	b := &countingBackend{fn: func(string) (Coordinate, error) {
		<-release
		return Coordinate{Lat: 1, Lng: 2}, nil
	}}
	r := NewResolver(b, WithMinInterval(0))

	var wg sync.WaitGroup
	results := make([]Coordinate, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), "Paris, France")
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, c := range results {
		assert.Equal(t, Coordinate{Lat: 1, Lng: 2}, c)
	}
	assert.Equal(t, 1, b.count())
}

func TestResolve_ThrottleAbortedByContextFallsBack(t *testing.T) {
	b := &countingBackend{fn: func(string) (Coordinate, error) { return Coordinate{Lat: 9, Lng: 9}, nil }}
	r := NewResolver(b, WithMinInterval(time.Hour))
	ctx := context.Background()

	r.Resolve(ctx, "Berlin, Germany")

	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Equal(t, Coordinate{Lat: 48.8566, Lng: 2.3522}, r.Resolve(short, "Paris, France"))
	assert.Equal(t, 1, b.count())
}

func TestResolve_SharedCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	shared := redis.NewRedisCache(redis.NewClientFromUniversal(db, nil), nil,
		redis.WithPrefix("rr:"), redis.WithTTLJitter(false))

	b := failing()
	r := NewResolver(b, WithMinInterval(0), WithSharedCache(shared, time.Hour))
	ctx := context.Background()

	mock.ExpectGet("rr:geo:Mumbai, India").SetVal(`{"lat":19,"lng":72}`)
	mock.ExpectGet("rr:geo:Shanghai, China").RedisNil()
	mock.ExpectSet("rr:geo:Shanghai, China", []byte(`{"lat":31.2304,"lng":121.4737}`), time.Hour).SetVal("OK")

	assert.Equal(t, Coordinate{Lat: 19, Lng: 72}, r.Resolve(ctx, "Mumbai, India"))
	assert.Equal(t, Coordinate{Lat: 31.2304, Lng: 121.4737}, r.Resolve(ctx, "Shanghai, China"))
	assert.Equal(t, 1, b.count())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_SharedCacheReadErrorStillResolvesAndStores(t *testing.T) {
	db, mock := redismock.NewClientMock()
	shared := redis.NewRedisCache(redis.NewClientFromUniversal(db, nil), nil,
		redis.WithPrefix("rr:"), redis.WithTTLJitter(false))

	b := failing()
	r := NewResolver(b, WithMinInterval(0), WithSharedCache(shared, time.Hour))

	mock.ExpectGet("rr:geo:Paris, France").SetErr(errors.New(errors.ErrCodeCacheError, "i/o timeout"))
	mock.ExpectSet("rr:geo:Paris, France", []byte(`{"lat":48.8566,"lng":2.3522}`), time.Hour).SetVal("OK")

	assert.Equal(t, Coordinate{Lat: 48.8566, Lng: 2.3522}, r.Resolve(context.Background(), "Paris, France"))
	assert.Equal(t, 1, b.count())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_TotalOverArbitraryInput(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	r := NewResolver(failing(), WithMinInterval(0))
	ctx := context.Background()

	properties.Property("resolve returns finite coordinates", prop.ForAll(
		func(loc string) bool {
			c := r.Resolve(ctx, loc)
			return c.valid()
		},
		gen.AnyString(),
	))

	properties.Property("resolve is idempotent", prop.ForAll(
		func(loc string) bool {
			return r.Resolve(ctx, loc) == r.Resolve(ctx, loc)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

//Personal.AI order the ending
