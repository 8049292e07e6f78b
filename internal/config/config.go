package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Event bus backends.
const (
	EventBusMemory = "memory"
	EventBusRedis  = "redis"
)

// Config holds all configuration for the orchestrator service.
type Config struct {
	// Server configuration
	HTTPPort int    `env:"TASKORCH_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"TASKORCH_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Event bus backend: memory (default, standalone) or redis
	EventBus string `env:"TASKORCH_EVENT_BUS" envDefault:"memory"`

	// Mirror execution records to Redis for external observability
	ArchiveEnabled bool `env:"TASKORCH_ARCHIVE_ENABLED" envDefault:"false"`

	// Redis configuration (used when the event bus or archive needs it)
	Redis RedisConfig

	// Worker configuration
	Workers WorkerConfig

	// Run configuration
	Runs RunConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// WorkerConfig holds worker pool configuration.
type WorkerConfig struct {
	PoolSize            int           `env:"WORKER_POOL_SIZE" envDefault:"4"`
	HealthCheckInterval time.Duration `env:"WORKER_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
}

// RunConfig holds batch execution defaults.
type RunConfig struct {
	RetryFailed bool          `env:"RUN_RETRY_FAILED" envDefault:"true"`
	MaxRetries  int           `env:"RUN_MAX_RETRIES" envDefault:"3"`
	RetryDelay  time.Duration `env:"RUN_RETRY_DELAY" envDefault:"1s"`
}

// TimeoutConfig holds shutdown timing.
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	if c.EventBus != EventBusMemory && c.EventBus != EventBusRedis {
		return fmt.Errorf("invalid event bus backend: %s (must be memory or redis)", c.EventBus)
	}

	if c.RequiresRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when the redis event bus or the record archive is enabled")
	}

	if c.Workers.PoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1")
	}

	if c.Runs.MaxRetries < 1 {
		return fmt.Errorf("run max retries must be at least 1")
	}
	if c.Runs.RetryDelay <= 0 {
		return fmt.Errorf("run retry delay must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// RequiresRedis reports whether any configured component needs a Redis
// connection.
func (c *Config) RequiresRedis() bool {
	return c.EventBus == EventBusRedis || c.ArchiveEnabled
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address.
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
