// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Environment names accepted by the environment setting.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Store drivers accepted by store.driver.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

// Config holds all configuration for the service.
type Config struct {
	Environment string          `koanf:"environment"`
	Server      ServerConfig    `koanf:"server"`
	Log         LogConfig       `koanf:"log"`
	Store       StoreConfig     `koanf:"store"`
	Telemetry   TelemetryConfig `koanf:"telemetry"`
}

// DevMode reports whether failure responses may carry diagnostic detail.
func (c *Config) DevMode() bool {
	return c.Environment == EnvDevelopment
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig selects and configures the project repository.
type StoreConfig struct {
	Driver         string               `koanf:"driver"`
	Mongo          MongoConfig          `koanf:"mongo"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RateLimitConfig bounds the rate of store operations. Zero
// OperationsPerSecond disables limiting.
type RateLimitConfig struct {
	OperationsPerSecond float64 `koanf:"operations_per_second"`
	Burst               int     `koanf:"burst"`
}

// MongoConfig holds MongoDB connection settings. Only used when the store
// driver is "mongo".
type MongoConfig struct {
	URI             string        `koanf:"uri"`
	Database        string        `koanf:"database"`
	Collection      string        `koanf:"collection"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	MaxPoolSize     uint64        `koanf:"max_pool_size"`
	MinPoolSize     uint64        `koanf:"min_pool_size"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectInterval time.Duration `koanf:"connect_interval"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
