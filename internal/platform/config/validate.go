package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateEnvironment(),
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Telemetry.validate(),
	)
}

func (c *Config) validateEnvironment() error {
	switch c.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
		return nil
	default:
		return fmt.Errorf("environment must be one of: development, test, production; got %q", c.Environment)
	}
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (st *StoreConfig) validate() error {
	var errs []error

	switch st.Driver {
	case DriverMemory:
	case DriverMongo:
		errs = append(errs, st.Mongo.validate())
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of: memory, mongo; got %q", st.Driver))
	}

	if st.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("store.circuit_breaker.max_failures must be >= 1, got %d",
			st.CircuitBreaker.MaxFailures))
	}
	if st.CircuitBreaker.Timeout <= 0 {
		errs = append(errs, errors.New("store.circuit_breaker.timeout must be positive"))
	}
	if st.RateLimit.OperationsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("store.rate_limit.operations_per_second must not be negative, got %f",
			st.RateLimit.OperationsPerSecond))
	}
	if st.RateLimit.OperationsPerSecond > 0 && st.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("store.rate_limit.burst must be >= 1 when rate limiting is enabled, got %d",
			st.RateLimit.Burst))
	}

	return errors.Join(errs...)
}

func (m *MongoConfig) validate() error {
	var errs []error

	if m.URI == "" {
		errs = append(errs, errors.New("store.mongo.uri must not be empty"))
	}
	if m.Database == "" {
		errs = append(errs, errors.New("store.mongo.database must not be empty"))
	}
	if m.Collection == "" {
		errs = append(errs, errors.New("store.mongo.collection must not be empty"))
	}
	if m.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("store.mongo.connect_timeout must be positive"))
	}
	if m.ConnectAttempts < 1 {
		errs = append(errs, fmt.Errorf("store.mongo.connect_attempts must be >= 1, got %d", m.ConnectAttempts))
	}
	if m.MinPoolSize > m.MaxPoolSize {
		errs = append(errs, fmt.Errorf("store.mongo.min_pool_size (%d) must not exceed max_pool_size (%d)",
			m.MinPoolSize, m.MaxPoolSize))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
