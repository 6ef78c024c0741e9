// Package config defines the configuration structures for RiskRadar.  No I/O
// or parsing logic lives here; only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// GatewayConfig configures the inference gateway and its backend.
type GatewayConfig struct {
	Provider          string        `mapstructure:"provider"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	Concurrency       int           `mapstructure:"concurrency"`
	BackoffBase       time.Duration `mapstructure:"backoff_base"`
	BackoffMax        time.Duration `mapstructure:"backoff_max"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"` // 0 disables spacing
	Timeout           time.Duration `mapstructure:"timeout"`
	DisableCache      bool          `mapstructure:"disable_cache"`
	CacheSize         int           `mapstructure:"cache_size"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// BenchmarkConfig configures the simulated comparison backend and per-event
// prices used by the benchmark harness.
type BenchmarkConfig struct {
	StandardProvider        string        `mapstructure:"standard_provider"`
	StandardModel           string        `mapstructure:"standard_model"`
	StandardBaseLatency     time.Duration `mapstructure:"standard_base_latency"`
	StandardTokensPerEvent  int           `mapstructure:"standard_tokens_per_event"`
	StandardTokensPerSecond float64       `mapstructure:"standard_tokens_per_second"`
	ProductionCostPerEvent  float64       `mapstructure:"production_cost_per_event"`
	StandardCostPerEvent    float64       `mapstructure:"standard_cost_per_event"`
	DefaultSampleSize       int           `mapstructure:"default_sample_size"`
	MinRelevance            float64       `mapstructure:"min_relevance"`
}

// GeocodingConfig configures the geocoding backend.
type GeocodingConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// EnricherConfig configures batching and filtering in the enrichment pipeline.
type EnricherConfig struct {
	BatchSize      int           `mapstructure:"batch_size"`
	Parallelism    int           `mapstructure:"parallelism"`
	Cooldown       time.Duration `mapstructure:"cooldown"`
	MinRelevance   float64       `mapstructure:"min_relevance"`
	DropBelowScore int           `mapstructure:"drop_below_score"`
	ImpactBase     float64       `mapstructure:"impact_base"`
}

// NewsConfig configures the NewsAPI event source.
type NewsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Query    string        `mapstructure:"query"`
	PageSize int           `mapstructure:"page_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// WeatherConfig configures the OpenWeather event source.
type WeatherConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Cities  []string      `mapstructure:"cities"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SuppliersConfig selects where the supplier roster is loaded from.
type SuppliersConfig struct {
	Source    string `mapstructure:"source"` // "file" | "postgres" | "minio"
	Path      string `mapstructure:"path"`
	ObjectKey string `mapstructure:"object_key"`
}

// RedisConfig holds Redis connection parameters.  Redis is an optional second
// cache level for model responses and geocoding results.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds the worker's consumer/producer parameters.
type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	GroupID     string   `mapstructure:"group_id"`
	EventsTopic string   `mapstructure:"events_topic"`
	RisksTopic  string   `mapstructure:"risks_topic"`
	BatchSize   int      `mapstructure:"batch_size"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the supplier store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// MinIOConfig holds object-storage parameters for the supplier roster.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	Enricher  EnricherConfig  `mapstructure:"enricher"`
	News      NewsConfig      `mapstructure:"news"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Suppliers SuppliersConfig `mapstructure:"suppliers"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Database  DatabaseConfig  `mapstructure:"database"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
}

// Validate checks the configuration for consistency.  It assumes ApplyDefaults
// has already run.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Gateway
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("config: gateway.base_url is required")
	}
	if c.Gateway.Model == "" {
		return fmt.Errorf("config: gateway.model is required")
	}
	if c.Gateway.Concurrency < 1 || c.Gateway.Concurrency > MaxGatewayConcurrency {
		return fmt.Errorf("config: gateway.concurrency %d is out of range [1, %d]", c.Gateway.Concurrency, MaxGatewayConcurrency)
	}
	if c.Gateway.MaxAttempts < 1 {
		return fmt.Errorf("config: gateway.max_attempts must be ≥ 1, got %d", c.Gateway.MaxAttempts)
	}
	if c.Gateway.Temperature < 0 || c.Gateway.Temperature > 2 {
		return fmt.Errorf("config: gateway.temperature %.2f is out of range [0, 2]", c.Gateway.Temperature)
	}
	if c.Gateway.BackoffMax < c.Gateway.BackoffBase {
		return fmt.Errorf("config: gateway.backoff_max must be ≥ gateway.backoff_base")
	}
	if c.Gateway.RequestsPerMinute < 0 {
		return fmt.Errorf("config: gateway.requests_per_minute must be ≥ 0, got %d", c.Gateway.RequestsPerMinute)
	}

	// Enricher
	if c.Enricher.BatchSize < 1 {
		return fmt.Errorf("config: enricher.batch_size must be ≥ 1, got %d", c.Enricher.BatchSize)
	}
	if c.Enricher.Parallelism < 1 || c.Enricher.Parallelism > c.Gateway.Concurrency {
		return fmt.Errorf("config: enricher.parallelism %d must be in [1, gateway.concurrency=%d]",
			c.Enricher.Parallelism, c.Gateway.Concurrency)
	}

	// Benchmark
	if c.Benchmark.StandardTokensPerSecond <= 0 {
		return fmt.Errorf("config: benchmark.standard_tokens_per_second must be > 0")
	}

	// Suppliers
	switch c.Suppliers.Source {
	case SupplierSourceFile:
		if c.Suppliers.Path == "" {
			return fmt.Errorf("config: suppliers.path is required for the file source")
		}
	case SupplierSourcePostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("config: suppliers.source postgres requires database.enabled")
		}
	case SupplierSourceMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.endpoint and minio.bucket are required for the minio source")
		}
	default:
		return fmt.Errorf("config: suppliers.source %q is invalid; expected file|postgres|minio", c.Suppliers.Source)
	}

	// Optional infrastructure
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}
	if c.News.Enabled && c.News.APIKey == "" {
		return fmt.Errorf("config: news.api_key is required when news.enabled")
	}
	if c.Weather.Enabled && c.Weather.APIKey == "" {
		return fmt.Errorf("config: weather.api_key is required when weather.enabled")
	}

	return nil
}

//Personal.AI order the ending
