// Package gateway is the single path to the inference backend.  A Gateway
// bounds in-flight requests, spaces them to a requests-per-minute ceiling,
// retries transient failures with jittered exponential backoff and caches
// responses by request content.  All counters live in one GatewayState owned
// by the Gateway instance.
package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// DefaultSystemPrompt is sent with every risk-analysis completion.
const DefaultSystemPrompt = "You are an AI risk analyzer for supply chain disruptions. Return ONLY JSON output."

// Config carries gateway tunables.  Zero values take the defaults below.
type Config struct {
	Provider          string
	Model             string
	Temperature       float64
	MaxTokens         int
	MaxAttempts       int
	Concurrency       int
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	RequestsPerMinute int
	Timeout           time.Duration
	DisableCache      bool
	CacheSize         int
	CacheTTL          time.Duration
}

func (c *Config) applyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 512
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 500 * time.Millisecond
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 5 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Options are the per-request knobs that also feed the cache key.
type Options struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system"`
	MaxAttempts  int     `json:"-"`
	// NoCache skips the response cache for reads and writes.
	NoCache      bool    `json:"-"`
}

// Option customises one Complete call.
type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxAttempts = n
		}
	}
}

func WithSystemPrompt(s string) Option {
	return func(o *Options) { o.SystemPrompt = s }
}

// WithoutCache forces a backend round trip.  Benchmarks use it so timings
// measure inference rather than a cache lookup.
func WithoutCache() Option {
	return func(o *Options) { o.NoCache = true }
}

// Completer is what callers of the gateway depend on.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Gateway implements Completer.  Construct one per process and inject it.
type Gateway struct {
	cfg     Config
	backend Backend
	cache   Cache
	sem     *semaphore.Weighted
	pacer   *rate.Limiter
	state   *GatewayState
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// GatewayOption configures a Gateway at construction.
type GatewayOption func(*Gateway)

// WithCache replaces the default in-memory cache, e.g. with a TieredCache
// backed by Redis.
func WithCache(c Cache) GatewayOption {
	return func(g *Gateway) { g.cache = c }
}

func WithLogger(l logging.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithMetrics(m *prometheus.AppMetrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

// WithSleeper overrides how backoff waits.  Tests use it to record delays.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) GatewayOption {
	return func(g *Gateway) {
		if fn != nil {
			g.sleep = fn
		}
	}
}

// New builds a Gateway around backend.
func New(cfg Config, backend Backend, opts ...GatewayOption) (*Gateway, error) {
	if backend == nil {
		return nil, errors.InvalidParam("inference backend is required")
	}
	if cfg.Model == "" {
		return nil, errors.InvalidParam("model is required")
	}
	cfg.applyDefaults()

	g := &Gateway{
		cfg:     cfg,
		backend: backend,
		sem:     semaphore.NewWeighted(int64(cfg.Concurrency)),
		state:   &GatewayState{},
		logger:  logging.NewNopLogger(),
		sleep:   sleepCtx,
	}
	if !cfg.DisableCache {
		g.cache = NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
	}
	if cfg.RequestsPerMinute > 0 {
		g.pacer = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	for _, o := range opts {
		o(g)
	}
	if cfg.DisableCache {
		g.cache = nil
	}
	g.logger = g.logger.Named("gateway")
	return g, nil
}

// Snapshot returns a copy of the gateway counters.
func (g *Gateway) Snapshot() Snapshot {
	s := g.state.snapshot()
	s.Provider = g.cfg.Provider
	s.Model = g.cfg.Model
	s.ConcurrencyLimit = g.cfg.Concurrency
	return s
}

// Provider and Model identify the production backend.
func (g *Gateway) Provider() string { return g.cfg.Provider }
func (g *Gateway) Model() string    { return g.cfg.Model }

// CacheKey hashes the prompt together with the options that change the answer.
func CacheKey(prompt string, o Options) string {
	norm, _ := json.Marshal(struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		System      string  `json:"system"`
	}{o.Model, o.Temperature, o.MaxTokens, o.SystemPrompt})
	sum := sha256.Sum256(append([]byte(prompt), norm...))
	return hex.EncodeToString(sum[:])
}

func (g *Gateway) resolve(opts []Option) Options {
	o := Options{
		Model:        g.cfg.Model,
		Temperature:  g.cfg.Temperature,
		MaxTokens:    g.cfg.MaxTokens,
		MaxAttempts:  g.cfg.MaxAttempts,
		SystemPrompt: DefaultSystemPrompt,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Complete sends prompt to the backend and returns the trimmed response text.
// After the attempts run out it returns an AppError with
// ErrCodeModelUnavailable carrying the last cause; a non-retryable rejection
// returns ErrCodeModelRequestRejected immediately.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := g.resolve(opts)
	log := g.logger.WithContext(ctx).With(logging.String("model", o.Model))

	key := CacheKey(prompt, o)
	useCache := g.cache != nil && !o.NoCache
	if useCache {
		if v, ok := g.cache.Get(ctx, key); ok {
			g.state.recordCacheHit()
			prometheus.RecordCacheAccess(g.metrics, "llm", true)
			log.Debug("inference cache hit")
			return v, nil
		}
		prometheus.RecordCacheAccess(g.metrics, "llm", false)
	}

	g.state.recordCall(prompt)
	req := Request{
		Model:       o.Model,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
		Messages: []Message{
			{Role: "system", Content: o.SystemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	start := time.Now()
	var last attemptResult
retry:
	for attempt := 1; attempt <= o.MaxAttempts; attempt++ {
		last = g.attempt(ctx, req)

		switch last.kind {
		case attemptOK:
			latency := time.Since(start)
			g.state.recordSuccess(latency, last.resp.Usage)
			prometheus.RecordLLMCall(g.metrics, o.Model, true, latency, last.resp.Usage.PromptTokens, last.resp.Usage.CompletionTokens)
			if useCache {
				g.cache.Set(ctx, key, last.resp.Content)
			}
			log.Info("inference succeeded",
				logging.Int("attempt", attempt),
				logging.Duration("latency", latency),
				logging.Int("total_tokens", last.resp.Usage.TotalTokens))
			return last.resp.Content, nil

		case attemptFatal:
			if last.reason == "cancelled" {
				break retry
			}
			err := errors.Wrap(last.cause, errors.ErrCodeModelRequestRejected, "inference backend rejected the request").
				WithDetail(last.reason)
			g.fail(log, o.Model, start, err)
			return "", err
		}

		log.Warn("inference attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", o.MaxAttempts),
			logging.String("reason", last.reason),
			logging.Err(last.cause))

		if attempt == o.MaxAttempts {
			break retry
		}
		g.state.recordRetry()
		prometheus.RecordLLMRetry(g.metrics, o.Model, last.reason)
		if err := g.sleep(ctx, g.backoff(attempt)); err != nil {
			last = attemptResult{kind: attemptFatal, reason: "cancelled", cause: err}
			break retry
		}
	}

	err := errors.Wrap(last.cause, errors.ErrCodeModelUnavailable,
		fmt.Sprintf("inference backend unavailable after %d attempts", o.MaxAttempts)).
		WithDetail(last.reason)
	g.fail(log, o.Model, start, err)
	return "", err
}

func (g *Gateway) fail(log logging.Logger, model string, start time.Time, err error) {
	g.state.recordFailure(err)
	prometheus.RecordLLMCall(g.metrics, model, false, time.Since(start), 0, 0)
	prometheus.RecordError(g.metrics, "gateway", string(errors.GetCode(err)))
	log.Error("inference failed", logging.Err(err))
}

// attempt runs one backend call inside a limiter slot and the pacing window.
func (g *Gateway) attempt(ctx context.Context, req Request) attemptResult {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return attemptResult{kind: attemptFatal, reason: "cancelled", cause: err}
	}
	defer g.sem.Release(1)

	if g.pacer != nil {
		if err := g.pacer.Wait(ctx); err != nil {
			return attemptResult{kind: attemptFatal, reason: "cancelled", cause: err}
		}
	}

	g.state.enter()
	prometheus.RecordLLMInFlight(g.metrics, req.Model, 1)
	defer func() {
		g.state.leave()
		prometheus.RecordLLMInFlight(g.metrics, req.Model, -1)
	}()

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	resp, err := g.backend.Complete(callCtx, req)
	return classify(ctx, resp, err)
}

// backoff returns the wait after the attempt-th failure: BackoffBase doubled
// per attempt, capped at BackoffMax, with ±25% jitter.
func (g *Gateway) backoff(attempt int) time.Duration {
	base := float64(g.cfg.BackoffBase) * math.Pow(2, float64(attempt-1))
	if base > float64(g.cfg.BackoffMax) {
		base = float64(g.cfg.BackoffMax)
	}
	jitter := base * 0.25 * (rand.Float64()*2 - 1)
	d := time.Duration(base + jitter)
	if d < 0 {
		d = 0
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

//Personal.AI order the ending
