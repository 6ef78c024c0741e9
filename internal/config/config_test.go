package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
)

// validConfig returns a Config that passes Validate().
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_Defaults(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestApplyDefaults_GatewayValues(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	assert.Equal(t, 0.2, cfg.Gateway.Temperature)
	assert.Equal(t, 512, cfg.Gateway.MaxTokens)
	assert.Equal(t, 3, cfg.Gateway.MaxAttempts)
	assert.Equal(t, 3, cfg.Gateway.Concurrency)
	assert.Equal(t, config.DefaultGatewayBackoffBase, cfg.Gateway.BackoffBase)
	assert.Equal(t, config.DefaultGatewayBackoffMax, cfg.Gateway.BackoffMax)
	assert.False(t, cfg.Gateway.DisableCache)
	assert.Equal(t, 5, cfg.Enricher.BatchSize)
	assert.Equal(t, 2, cfg.Enricher.Parallelism)
	assert.Equal(t, 0.002, cfg.Benchmark.ProductionCostPerEvent)
	assert.Equal(t, 0.015, cfg.Benchmark.StandardCostPerEvent)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Gateway.MaxAttempts = 4
	cfg.Enricher.BatchSize = 10
	config.ApplyDefaults(cfg)
	assert.Equal(t, 4, cfg.Gateway.MaxAttempts)
	assert.Equal(t, 10, cfg.Enricher.BatchSize)
}

func TestApplyDefaults_Nil(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { config.ApplyDefaults(nil) })
}

func TestConfig_Validate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"port", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"mode", func(c *config.Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
		{"concurrency high", func(c *config.Config) { c.Gateway.Concurrency = 8 }, "gateway.concurrency"},
		{"max attempts", func(c *config.Config) { c.Gateway.MaxAttempts = -1 }, "gateway.max_attempts"},
		{"backoff", func(c *config.Config) { c.Gateway.BackoffMax = c.Gateway.BackoffBase / 2 }, "gateway.backoff_max"},
		{"rpm", func(c *config.Config) { c.Gateway.RequestsPerMinute = -5 }, "gateway.requests_per_minute"},
		{"parallelism above limiter", func(c *config.Config) {
			c.Gateway.Concurrency = 1
			c.Enricher.Parallelism = 2
		}, "enricher.parallelism"},
		{"supplier source", func(c *config.Config) { c.Suppliers.Source = "s3" }, "suppliers.source"},
		{"postgres source without db", func(c *config.Config) { c.Suppliers.Source = config.SupplierSourcePostgres }, "database.enabled"},
		{"db user", func(c *config.Config) { c.Database.Enabled = true }, "database.user"},
		{"kafka brokers", func(c *config.Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, "kafka.brokers"},
		{"news key", func(c *config.Config) { c.News.Enabled = true }, "news.api_key"},
		{"weather key", func(c *config.Config) { c.Weather.Enabled = true }, "weather.api_key"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

//Personal.AI order the ending
