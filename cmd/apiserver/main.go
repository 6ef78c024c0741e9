// API server entry point for the supply-chain risk radar.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/bootstrap"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/handlers"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize components", logging.Err(err))
	}
	defer comps.Close()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.Server.CORSOrigins
	logCfg := middleware.DefaultLoggingConfig()
	rlCfg := middleware.DefaultRateLimitConfig()
	rlCfg.RequestsPerSecond = cfg.Server.RateLimitRPS
	rlCfg.Burst = cfg.Server.RateLimitBurst
	limiter := middleware.NewKeyedLimiter(rlCfg)

	if *configPath != "" {
		config.Watch(*configPath, func(next *config.Config) {
			limiter.SetLimit(next.Server.RateLimitRPS, next.Server.RateLimitBurst)
			logger.Info("rate limit reloaded",
				logging.Float64("rps", next.Server.RateLimitRPS),
				logging.Int("burst", next.Server.RateLimitBurst))
		}, func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		RiskHandler:      handlers.NewRiskHandler(comps.Service, logger),
		HealthHandler:    handlers.NewHealthHandler(Version, comps.HealthCheckers()...),
		CORS:             &corsCfg,
		Logging:          &logCfg,
		RateLimit:        &rlCfg,
		Limiter:          limiter,
		Logger:           logger,
		Metrics:          comps.Metrics,
		MetricsCollector: comps.Collector,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	logger.Info("starting risk radar API server",
		logging.String("version", Version),
		logging.String("addr", srv.Addr()),
		logging.String("provider", cfg.Gateway.Provider),
		logging.String("model", cfg.Gateway.Model),
		logging.String("supplier_source", cfg.Suppliers.Source),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", logging.Err(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := srv.Stop(context.Background()); err != nil {
			logger.Error("http server shutdown error", logging.Err(err))
		}
	}
	logger.Info("server stopped")
}

//Personal.AI order the ending
