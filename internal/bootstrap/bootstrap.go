// Package bootstrap assembles the enrichment service from configuration.  The
// API server, the worker and the CLI share it so every entrypoint runs the
// same component graph.
package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/application/riskradar"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/event"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/geocoding"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/news"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/openweather"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/storage/file"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/storage/minio"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/translation"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/benchmark"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/enricher"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/handlers"
)

// simulatedCapacity bounds the injected events kept in memory.
const simulatedCapacity = 100

// Components is the wired service plus the infrastructure handles the
// entrypoints need for health checks and shutdown.
type Components struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics

	Redis    *redis.Client
	Postgres *postgres.Connection
	MinIO    *minio.Client

	Gateway *gateway.Gateway
	Service riskradar.Service

	closers []func() error
}

// Build wires every component described by cfg.  Redis is optional: when it
// cannot be reached the caches stay in-process.  The configured supplier
// source must be reachable.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Components{Config: cfg, Logger: logger}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "riskradar",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, err
	}
	c.Collector = collector
	c.Metrics = prometheus.NewAppMetrics(collector)

	shared := c.openRedis()

	gw, err := newGateway(cfg.Gateway, shared, logger, c.Metrics)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Gateway = gw

	resolverOpts := []geocoding.Option{
		geocoding.WithLogger(logger),
		geocoding.WithMetrics(c.Metrics),
		geocoding.WithMinInterval(cfg.Geocoding.MinInterval),
	}
	if shared != nil {
		resolverOpts = append(resolverOpts, geocoding.WithSharedCache(shared, cfg.Geocoding.CacheTTL))
	}
	resolver := geocoding.NewResolver(geocoding.NewNominatim(geocoding.NominatimConfig{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Timeout:   cfg.Geocoding.Timeout,
	}, logger), resolverOpts...)

	roster, err := OpenRoster(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Postgres, c.MinIO = roster.Postgres, roster.MinIO
	c.closers = append(c.closers, roster.Close)

	enr, err := enricher.New(enricher.Config{
		BatchSize:      cfg.Enricher.BatchSize,
		Parallelism:    cfg.Enricher.Parallelism,
		Cooldown:       cfg.Enricher.Cooldown,
		MinRelevance:   cfg.Enricher.MinRelevance,
		DropBelowScore: cfg.Enricher.DropBelowScore,
		ImpactBase:     cfg.Enricher.ImpactBase,
		GatewayLimit:   cfg.Gateway.Concurrency,
	}, gw, resolver,
		enricher.WithTranslator(translation.NewLLMTranslator(gw, logger)),
		enricher.WithSupplierStore(roster.Store),
		enricher.WithLogger(logger),
		enricher.WithMetrics(c.Metrics),
	)
	if err != nil {
		c.Close()
		return nil, err
	}

	harness, err := newHarness(cfg.Benchmark, gw, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	var sources event.MultiSource
	if cfg.News.Enabled {
		sources = append(sources, news.NewClient(news.Config{
			BaseURL:  cfg.News.BaseURL,
			APIKey:   cfg.News.APIKey,
			Query:    cfg.News.Query,
			PageSize: cfg.News.PageSize,
			Timeout:  cfg.News.Timeout,
		}, logger, c.Metrics))
	} else {
		logger.Info("news source disabled")
	}
	var weatherSource riskradar.WeatherSource
	if cfg.Weather.Enabled {
		ow := openweather.NewClient(openweather.Config{
			BaseURL: cfg.Weather.BaseURL,
			APIKey:  cfg.Weather.APIKey,
			Cities:  cfg.Weather.Cities,
			Timeout: cfg.Weather.Timeout,
		}, logger, c.Metrics)
		sources = append(sources, ow)
		weatherSource = ow
	}
	if len(sources) == 0 {
		logger.Info("no live event source enabled, serving simulated events only")
	}

	svc, err := riskradar.NewService(riskradar.Deps{
		Events:            sources,
		Simulated:         event.NewSimulatedStore(simulatedCapacity),
		Analyzer:          enr,
		Suppliers:         roster.Store,
		FallbackSuppliers: roster.Fallback,
		Benchmark:         harness,
		Gateway:           gw,
		Weather:           weatherSource,
		Logger:            logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Service = svc
	return c, nil
}

// openRedis connects the optional shared cache.  Failures are logged and
// leave the caches in-process.
func (c *Components) openRedis() redis.Cache {
	rc := c.Config.Redis
	if !rc.Enabled {
		return nil
	}
	client, cache, err := OpenRedis(rc, c.Logger)
	if err != nil {
		c.Logger.Warn("redis unavailable, using in-process caches only",
			logging.String("addr", rc.Addr), logging.Err(err))
		return nil
	}
	c.Redis = client
	c.closers = append(c.closers, client.Close)
	return cache
}

// OpenRedis connects to redis and returns the client with the shared cache
// rooted at rc.KeyPrefix.  The caller closes the client.
func OpenRedis(rc config.RedisConfig, logger logging.Logger) (*redis.Client, redis.Cache, error) {
	client, err := redis.NewClient(&redis.RedisConfig{
		Addr:         rc.Addr,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, redis.NewRedisCache(client, logger, redis.WithPrefix(rc.KeyPrefix)), nil
}

func newGateway(gc config.GatewayConfig, shared redis.Cache, logger logging.Logger, metrics *prometheus.AppMetrics) (*gateway.Gateway, error) {
	backend, err := gateway.NewHTTPBackend(gateway.HTTPBackendConfig{
		BaseURL: gc.BaseURL,
		APIKey:  gc.APIKey,
		Timeout: gc.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	opts := []gateway.GatewayOption{gateway.WithLogger(logger), gateway.WithMetrics(metrics)}
	if shared != nil && !gc.DisableCache {
		opts = append(opts, gateway.WithCache(gateway.TieredCache{
			gateway.NewMemoryCache(gc.CacheSize, gc.CacheTTL),
			gateway.NewRedisCache(shared, gc.CacheTTL, logger),
		}))
	}
	return gateway.New(gateway.Config{
		Provider:          gc.Provider,
		Model:             gc.Model,
		Temperature:       gc.Temperature,
		MaxTokens:         gc.MaxTokens,
		MaxAttempts:       gc.MaxAttempts,
		Concurrency:       gc.Concurrency,
		BackoffBase:       gc.BackoffBase,
		BackoffMax:        gc.BackoffMax,
		RequestsPerMinute: gc.RequestsPerMinute,
		Timeout:           gc.Timeout,
		DisableCache:      gc.DisableCache,
		CacheSize:         gc.CacheSize,
		CacheTTL:          gc.CacheTTL,
	}, backend, opts...)
}

func newHarness(bc config.BenchmarkConfig, gw *gateway.Gateway, logger logging.Logger) (*benchmark.Harness, error) {
	standard := benchmark.NewSimulatedStandard(benchmark.SimulatedConfig{
		BaseLatency:     bc.StandardBaseLatency,
		TokensPerEvent:  bc.StandardTokensPerEvent,
		TokensPerSecond: bc.StandardTokensPerSecond,
	})
	return benchmark.New(
		benchmark.Path{Provider: gw.Provider(), Model: gw.Model(), CostPerEvent: bc.ProductionCostPerEvent, Completer: gw},
		benchmark.Path{Provider: bc.StandardProvider, Model: bc.StandardModel, CostPerEvent: bc.StandardCostPerEvent, Completer: standard},
		benchmark.WithLogger(logger),
	)
}

// HealthCheckers adapts the connected infrastructure to readiness checks.
// Components that are not configured are not checked.
func (c *Components) HealthCheckers() []handlers.HealthChecker {
	var checks []handlers.HealthChecker
	if c.Postgres != nil {
		checks = append(checks, handlers.CheckFunc{Component: "postgres", Fn: c.Postgres.HealthCheck})
	}
	if c.Redis != nil {
		checks = append(checks, handlers.CheckFunc{Component: "redis", Fn: c.Redis.Ping})
	}
	if c.MinIO != nil {
		checks = append(checks, handlers.CheckFunc{Component: "minio", Fn: c.MinIO.HealthCheck})
	}
	return checks
}

// Close releases every opened connection.  It is safe to call on a
// partially built Components.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return stderrors.Join(errs...)
}

// Roster is the configured supplier store plus the file store used as its
// fallback.
type Roster struct {
	Source   string
	Store    supplier.Store
	Fallback supplier.Store
	Postgres *postgres.Connection
	MinIO    *minio.Client
}

// Close closes the database pool if one was opened.
func (r *Roster) Close() error {
	if r.Postgres != nil {
		return r.Postgres.Close()
	}
	return nil
}

// OpenRoster connects the supplier source named by cfg.Suppliers.Source.  The
// file at cfg.Suppliers.Path is always the fallback.
func OpenRoster(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Roster, error) {
	fallback := file.NewStore(cfg.Suppliers.Path, logger)
	r := &Roster{Source: cfg.Suppliers.Source, Fallback: fallback}

	switch cfg.Suppliers.Source {
	case config.SupplierSourcePostgres:
		conn, err := postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("supplier store: %w", err)
		}
		r.Postgres = conn
		r.Store = repositories.NewSupplierRepo(conn, logger)
	case config.SupplierSourceMinIO:
		mc, err := minio.NewClient(ctx, cfg.MinIO, logger)
		if err != nil {
			return nil, fmt.Errorf("supplier store: %w", err)
		}
		r.MinIO = mc
		r.Store = minio.NewRosterStore(mc, cfg.Suppliers.ObjectKey)
	default:
		r.Source = config.SupplierSourceFile
		r.Store = fallback
	}
	logger.Info("supplier roster source selected", logging.String("source", r.Source))
	return r, nil
}

//Personal.AI order the ending
