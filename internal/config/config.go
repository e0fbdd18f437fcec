package config

import (
	"fmt"
	"net"
	"time"

	pkgconfig "github.com/utafrali/catalog/pkg/config"
	"github.com/utafrali/catalog/pkg/database"
	"github.com/utafrali/catalog/pkg/middleware"
	"github.com/utafrali/catalog/pkg/tracing"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Idempotency stores.
const (
	IdempotencyNone   = "none"
	IdempotencyMemory = "memory"
	IdempotencyRedis  = "redis"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Version     string `env:"SERVICE_VERSION" envDefault:"0.1.0"`

	// HTTP server
	HTTPPort        int           `env:"CATALOG_HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Storage driver (postgres or memory)
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// PostgreSQL
	PostgresHost       string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort       int           `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser       string        `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPass       string        `env:"POSTGRES_PASSWORD" envDefault:"catalog"`
	PostgresDB         string        `env:"POSTGRES_DB" envDefault:"catalog"`
	PostgresSSL        string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresMaxConns   int32         `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	PostgresMinConns   int32         `env:"POSTGRES_MIN_CONNS" envDefault:"5"`
	AutoMigrate        bool          `env:"POSTGRES_AUTO_MIGRATE" envDefault:"true"`
	SlowQueryThreshold time.Duration `env:"POSTGRES_SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Kafka. No brokers disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Idempotency-Key support (none, memory or redis)
	IdempotencyStore string        `env:"IDEMPOTENCY_STORE" envDefault:"memory"`
	IdempotencyTTL   time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Redis. RedisURL takes precedence over host and port.
	RedisURL  string `env:"REDIS_URL"`
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELInsecure   bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Profiling endpoints under /debug/pprof
	PprofEnabled bool     `env:"PPROF_ENABLED" envDefault:"false"`
	PprofCIDRs   []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}

	switch c.StorageDriver {
	case StoragePostgres:
		if c.PostgresPort < 1 || c.PostgresPort > 65535 {
			return fmt.Errorf("invalid PostgreSQL port: %d", c.PostgresPort)
		}
		if c.PostgresMinConns > c.PostgresMaxConns {
			return fmt.Errorf("POSTGRES_MIN_CONNS (%d) exceeds POSTGRES_MAX_CONNS (%d)", c.PostgresMinConns, c.PostgresMaxConns)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver)
	}

	switch c.IdempotencyStore {
	case IdempotencyNone:
	case IdempotencyMemory, IdempotencyRedis:
		if c.IdempotencyTTL <= 0 {
			return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", c.IdempotencyTTL)
		}
	default:
		return fmt.Errorf("IDEMPOTENCY_STORE must be one of %q, %q, %q, got %q",
			IdempotencyNone, IdempotencyMemory, IdempotencyRedis, c.IdempotencyStore)
	}

	if c.IdempotencyStore == IdempotencyRedis && c.RedisURL == "" && (c.RedisPort < 1 || c.RedisPort > 65535) {
		return fmt.Errorf("invalid Redis port: %d", c.RedisPort)
	}

	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}

	if c.PprofEnabled {
		if _, err := middleware.ParseCIDRs(c.PprofCIDRs); err != nil {
			return fmt.Errorf("PPROF_ALLOWED_CIDRS: %w", err)
		}
	}
	return nil
}

// Postgres returns the connection settings for the PostgreSQL pool.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	pg.MaxConns = c.PostgresMaxConns
	pg.MinConns = c.PostgresMinConns
	return pg
}

// Redis returns the connection settings for the Redis client.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		URL:      c.RedisURL,
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPass,
		DB:       c.RedisDB,
	}
}

// Tracing returns the OpenTelemetry settings for serviceName.
func (c *Config) Tracing(serviceName string) tracing.Config {
	tc := tracing.DefaultConfig(serviceName)
	tc.ServiceVersion = c.Version
	tc.Environment = c.Environment
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.Insecure = c.OTELInsecure
	tc.SampleRate = c.OTELSampleRate
	tc.Enabled = c.OTELEnabled
	return tc
}

// PprofAllowlist returns the networks allowed to reach /debug/pprof, or nil
// when profiling is disabled.
func (c *Config) PprofAllowlist() []*net.IPNet {
	if !c.PprofEnabled {
		return nil
	}
	nets, _ := middleware.ParseCIDRs(c.PprofCIDRs)
	return nets
}

// EventsEnabled reports whether domain events are published to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
