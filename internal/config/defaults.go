package config

import "time"

// Supplier roster sources.
const (
	SupplierSourceFile     = "file"
	SupplierSourcePostgres = "postgres"
	SupplierSourceMinIO    = "minio"
)

// MaxGatewayConcurrency bounds in-flight inference requests.
const MaxGatewayConcurrency = 3

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 5000
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 180 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 10.0
	DefaultRateLimitBurst  = 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultGatewayProvider    = "cerebras"
	DefaultGatewayBaseURL     = "https://api.cerebras.ai/v1"
	DefaultGatewayModel       = "llama3.1-8b"
	DefaultGatewayTemperature = 0.2
	DefaultGatewayMaxTokens   = 512
	DefaultGatewayMaxAttempts = 3
	DefaultGatewayConcurrency = 3
	DefaultGatewayBackoffBase = 500 * time.Millisecond
	DefaultGatewayBackoffMax  = 5 * time.Second
	DefaultGatewayTimeout     = 60 * time.Second
	DefaultGatewayCacheSize   = 512
	DefaultGatewayCacheTTL    = time.Hour

	DefaultStandardProvider        = "standard-llm"
	DefaultStandardModel           = "gpt-class-standard"
	DefaultStandardBaseLatency     = 800 * time.Millisecond
	DefaultStandardTokensPerEvent  = 100
	DefaultStandardTokensPerSecond = 40.0
	DefaultProductionCostPerEvent  = 0.002
	DefaultStandardCostPerEvent    = 0.015
	DefaultBenchmarkSampleSize     = 3
	DefaultBenchmarkMinRelevance   = 0.5

	DefaultGeocodingBaseURL     = "https://nominatim.openstreetmap.org"
	DefaultGeocodingUserAgent   = "SupplyChainRiskRadar/1.0"
	DefaultGeocodingTimeout     = 10 * time.Second
	DefaultGeocodingMinInterval = time.Second
	DefaultGeocodingCacheTTL    = 24 * time.Hour

	DefaultEnricherBatchSize      = 5
	DefaultEnricherParallelism    = 2
	DefaultEnricherCooldown       = time.Second
	DefaultEnricherMinRelevance   = 0.1
	DefaultEnricherDropBelowScore = 20
	DefaultEnricherImpactBase     = 200000.0

	DefaultNewsBaseURL  = "https://newsapi.org/v2"
	DefaultNewsQuery    = "supply chain OR port OR shipping OR logistics OR strike OR flood"
	DefaultNewsPageSize = 20
	DefaultNewsTimeout  = 10 * time.Second

	DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultWeatherTimeout = 10 * time.Second

	DefaultSupplierSource    = SupplierSourceFile
	DefaultSupplierPath      = "data/suppliers.json"
	DefaultSupplierObjectKey = "suppliers.json"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "riskradar:"

	DefaultKafkaBroker      = "localhost:9092"
	DefaultKafkaGroupID     = "riskradar-worker"
	DefaultKafkaEventsTopic = "riskradar.events"
	DefaultKafkaRisksTopic  = "riskradar.risks"
	DefaultKafkaBatchSize   = 10

	DefaultDBHost          = "localhost"
	DefaultDBPort          = 5432
	DefaultDBName          = "riskradar"
	DefaultDBMaxConns      = 10
	DefaultDBMaxIdleConns  = 5
	DefaultDBConnLifetime  = 30 * time.Minute
	DefaultDBMigrationPath = "migrations"

	DefaultMinIOBucket = "riskradar"
	DefaultMinIORegion = "us-east-1"
)

// DefaultWeatherCities are the ports and hubs watched when weather.cities is
// unset.
func DefaultWeatherCities() []string {
	return []string{"Chennai", "Singapore", "Iceland", "New York"}
}

// ApplyDefaults fills every zero-value field in cfg.  Explicitly configured
// values are left untouched.  Call after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Gateway ───────────────────────────────────────────────────────────────
	g := &cfg.Gateway
	if g.Provider == "" {
		g.Provider = DefaultGatewayProvider
	}
	if g.BaseURL == "" {
		g.BaseURL = DefaultGatewayBaseURL
	}
	if g.Model == "" {
		g.Model = DefaultGatewayModel
	}
	if g.Temperature == 0 {
		g.Temperature = DefaultGatewayTemperature
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = DefaultGatewayMaxTokens
	}
	if g.MaxAttempts == 0 {
		g.MaxAttempts = DefaultGatewayMaxAttempts
	}
	if g.Concurrency == 0 {
		g.Concurrency = DefaultGatewayConcurrency
	}
	if g.BackoffBase == 0 {
		g.BackoffBase = DefaultGatewayBackoffBase
	}
	if g.BackoffMax == 0 {
		g.BackoffMax = DefaultGatewayBackoffMax
	}
	if g.Timeout == 0 {
		g.Timeout = DefaultGatewayTimeout
	}
	if g.CacheSize == 0 {
		g.CacheSize = DefaultGatewayCacheSize
	}
	if g.CacheTTL == 0 {
		g.CacheTTL = DefaultGatewayCacheTTL
	}

	// ── Benchmark ─────────────────────────────────────────────────────────────
	b := &cfg.Benchmark
	if b.StandardProvider == "" {
		b.StandardProvider = DefaultStandardProvider
	}
	if b.StandardModel == "" {
		b.StandardModel = DefaultStandardModel
	}
	if b.StandardBaseLatency == 0 {
		b.StandardBaseLatency = DefaultStandardBaseLatency
	}
	if b.StandardTokensPerEvent == 0 {
		b.StandardTokensPerEvent = DefaultStandardTokensPerEvent
	}
	if b.StandardTokensPerSecond == 0 {
		b.StandardTokensPerSecond = DefaultStandardTokensPerSecond
	}
	if b.ProductionCostPerEvent == 0 {
		b.ProductionCostPerEvent = DefaultProductionCostPerEvent
	}
	if b.StandardCostPerEvent == 0 {
		b.StandardCostPerEvent = DefaultStandardCostPerEvent
	}
	if b.DefaultSampleSize == 0 {
		b.DefaultSampleSize = DefaultBenchmarkSampleSize
	}
	if b.MinRelevance == 0 {
		b.MinRelevance = DefaultBenchmarkMinRelevance
	}

	// ── Geocoding ─────────────────────────────────────────────────────────────
	if cfg.Geocoding.BaseURL == "" {
		cfg.Geocoding.BaseURL = DefaultGeocodingBaseURL
	}
	if cfg.Geocoding.UserAgent == "" {
		cfg.Geocoding.UserAgent = DefaultGeocodingUserAgent
	}
	if cfg.Geocoding.Timeout == 0 {
		cfg.Geocoding.Timeout = DefaultGeocodingTimeout
	}
	if cfg.Geocoding.MinInterval == 0 {
		cfg.Geocoding.MinInterval = DefaultGeocodingMinInterval
	}
	if cfg.Geocoding.CacheTTL == 0 {
		cfg.Geocoding.CacheTTL = DefaultGeocodingCacheTTL
	}

	// ── Enricher ──────────────────────────────────────────────────────────────
	e := &cfg.Enricher
	if e.BatchSize == 0 {
		e.BatchSize = DefaultEnricherBatchSize
	}
	if e.Parallelism == 0 {
		e.Parallelism = DefaultEnricherParallelism
	}
	if e.Cooldown == 0 {
		e.Cooldown = DefaultEnricherCooldown
	}
	if e.MinRelevance == 0 {
		e.MinRelevance = DefaultEnricherMinRelevance
	}
	if e.DropBelowScore == 0 {
		e.DropBelowScore = DefaultEnricherDropBelowScore
	}
	if e.ImpactBase == 0 {
		e.ImpactBase = DefaultEnricherImpactBase
	}

	// ── News ──────────────────────────────────────────────────────────────────
	if cfg.News.BaseURL == "" {
		cfg.News.BaseURL = DefaultNewsBaseURL
	}
	if cfg.News.Query == "" {
		cfg.News.Query = DefaultNewsQuery
	}
	if cfg.News.PageSize == 0 {
		cfg.News.PageSize = DefaultNewsPageSize
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = DefaultNewsTimeout
	}

	// ── Weather ───────────────────────────────────────────────────────────────
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = DefaultWeatherBaseURL
	}
	if len(cfg.Weather.Cities) == 0 {
		cfg.Weather.Cities = DefaultWeatherCities()
	}
	if cfg.Weather.Timeout == 0 {
		cfg.Weather.Timeout = DefaultWeatherTimeout
	}

	// ── Suppliers ─────────────────────────────────────────────────────────────
	if cfg.Suppliers.Source == "" {
		cfg.Suppliers.Source = DefaultSupplierSource
	}
	if cfg.Suppliers.Path == "" {
		cfg.Suppliers.Path = DefaultSupplierPath
	}
	if cfg.Suppliers.ObjectKey == "" {
		cfg.Suppliers.ObjectKey = DefaultSupplierObjectKey
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.EventsTopic == "" {
		cfg.Kafka.EventsTopic = DefaultKafkaEventsTopic
	}
	if cfg.Kafka.RisksTopic == "" {
		cfg.Kafka.RisksTopic = DefaultKafkaRisksTopic
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = DefaultKafkaBatchSize
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDBConnLifetime
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultDBMigrationPath
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
}

//Personal.AI order the ending
