// Worker entry point: consumes observed events from Kafka, enriches them and
// publishes the resulting risks.
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
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/http/handlers"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/interfaces/worker"
)

const defaultHealthPort = 8081

var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and /metrics")
	ensureTopics := flag.Bool("ensure-topics", true, "create the event, risk and dead-letter topics on startup")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
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

	if !cfg.Kafka.Enabled {
		logger.Fatal("kafka is disabled; set kafka.enabled to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize components", logging.Err(err))
	}
	defer comps.Close()

	if *ensureTopics {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Fatal("failed to connect to kafka", logging.Err(err))
		}
		if err := tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.Kafka.EventsTopic, cfg.Kafka.RisksTopic)); err != nil {
			logger.Fatal("failed to create topics", logging.Err(err))
		}
		_ = tm.Close()
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Acks: "all"}, logger)
	if err != nil {
		logger.Fatal("failed to create producer", logging.Err(err))
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:    cfg.Kafka.Brokers,
		GroupID:    cfg.Kafka.GroupID,
		Topic:      cfg.Kafka.EventsTopic,
		BatchSize:  cfg.Kafka.BatchSize,
		DeadLetter: producer,
	}, logger, comps.Metrics)
	if err != nil {
		logger.Fatal("failed to create consumer", logging.Err(err))
	}
	defer consumer.Close()

	healthSrv := httpserver.NewServer(config.ServerConfig{Port: *healthPort}, httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, comps.HealthCheckers()...),
		MetricsCollector: comps.Collector,
	}), logger)
	go func() {
		if err := healthSrv.Start(); err != nil {
			logger.Error("health server error", logging.Err(err))
		}
	}()

	handler := worker.NewEventHandler(comps.Service, producer, cfg.Kafka.RisksTopic, logger, comps.Metrics)
	logger.Info("starting risk radar worker",
		logging.String("version", Version),
		logging.String("events_topic", cfg.Kafka.EventsTopic),
		logging.String("risks_topic", cfg.Kafka.RisksTopic),
		logging.String("group", cfg.Kafka.GroupID),
	)
	if err := consumer.Run(ctx, handler.Handle); err != nil {
		logger.Error("consumer stopped with error", logging.Err(err))
	}

	consumed, processed, deadLettered := consumer.Stats()
	logger.Info("worker stopped",
		logging.Int64("consumed", consumed),
		logging.Int64("processed", processed),
		logging.Int64("dead_lettered", deadLettered),
	)
	if err := healthSrv.Stop(context.Background()); err != nil {
		logger.Warn("health server shutdown error", logging.Err(err))
	}
}

//Personal.AI order the ending
