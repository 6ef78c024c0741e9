package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/bootstrap"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/storage/minio"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/client"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// RadarAPI is the subset of the HTTP API the CLI calls.
type RadarAPI interface {
	ListRisks(ctx context.Context) ([]client.Risk, error)
	LatestRisks(ctx context.Context) ([]client.Risk, error)
	Simulate(ctx context.Context, req client.SimulateRequest) (*client.SimulateResult, error)
	ListSuppliers(ctx context.Context) (*client.SupplierList, error)
	Benchmark(ctx context.Context, req client.BenchmarkRequest) (*client.BenchmarkReport, error)
	GatewayMetrics(ctx context.Context) (*client.GatewayMetrics, error)
}

// Migrator applies the supplier schema.  postgres.Migrator implements it.
type Migrator interface {
	Up() error
	Down(steps int) error
	Status() (version uint, dirty bool, err error)
}

// RosterWriter replaces the supplier roster in the configured store.
type RosterWriter interface {
	WriteRoster(ctx context.Context, suppliers []supplier.Supplier) error
	Close() error
}

type clientAPI struct {
	c *client.Client
}

func newClientAPI(serverAddr string, timeout time.Duration) (RadarAPI, error) {
	httpClient := &http.Client{Timeout: timeout}
	c, err := client.NewClient(serverAddr,
		client.WithHTTPClient(httpClient),
		client.WithUserAgent("riskradar-cli/"+Version))
	if err != nil {
		return nil, err
	}
	return &clientAPI{c: c}, nil
}

func (a *clientAPI) ListRisks(ctx context.Context) ([]client.Risk, error) {
	return a.c.Risks().List(ctx)
}

func (a *clientAPI) LatestRisks(ctx context.Context) ([]client.Risk, error) {
	return a.c.Risks().Latest(ctx)
}

func (a *clientAPI) Simulate(ctx context.Context, req client.SimulateRequest) (*client.SimulateResult, error) {
	return a.c.Risks().Simulate(ctx, req)
}

func (a *clientAPI) ListSuppliers(ctx context.Context) (*client.SupplierList, error) {
	return a.c.Suppliers().List(ctx)
}

func (a *clientAPI) Benchmark(ctx context.Context, req client.BenchmarkRequest) (*client.BenchmarkReport, error) {
	return a.c.Benchmark(ctx, req)
}

func (a *clientAPI) GatewayMetrics(ctx context.Context) (*client.GatewayMetrics, error) {
	return a.c.GatewayMetrics(ctx)
}

func newPostgresMigrator(cfg *config.Config) Migrator {
	return postgres.NewMigrator(postgres.DSN(cfg.Database), cfg.Database.MigrationPath)
}

// CacheFlusher removes entries from the shared redis cache.
type CacheFlusher interface {
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Close() error
}

type redisFlusher struct {
	redis.Cache
	client *redis.Client
}

func (f *redisFlusher) Close() error { return f.client.Close() }

func openCacheFlusher(_ context.Context, cfg *config.Config, logger logging.Logger) (CacheFlusher, error) {
	if !cfg.Redis.Enabled {
		return nil, errors.InvalidParam("redis is disabled; there is no shared cache to flush")
	}
	client, cache, err := bootstrap.OpenRedis(cfg.Redis, logger)
	if err != nil {
		return nil, err
	}
	return &redisFlusher{Cache: cache, client: client}, nil
}

// rosterWriter adapts the writable supplier stores.
type rosterWriter struct {
	roster *bootstrap.Roster
	write  func(ctx context.Context, suppliers []supplier.Supplier) error
}

func (w *rosterWriter) WriteRoster(ctx context.Context, suppliers []supplier.Supplier) error {
	return w.write(ctx, suppliers)
}

func (w *rosterWriter) Close() error { return w.roster.Close() }

func openRosterWriter(ctx context.Context, cfg *config.Config, logger logging.Logger) (RosterWriter, error) {
	roster, err := bootstrap.OpenRoster(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	w := &rosterWriter{roster: roster}
	switch store := roster.Store.(type) {
	case *repositories.SupplierRepo:
		w.write = store.Upsert
	case *minio.RosterStore:
		w.write = store.Save
	default:
		roster.Close()
		return nil, errors.InvalidParam("supplier source " + roster.Source + " is read-only; edit " + cfg.Suppliers.Path + " directly")
	}
	return w, nil
}

//Personal.AI order the ending
