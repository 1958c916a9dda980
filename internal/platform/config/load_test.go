package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsamuelsen11/project-intake-service/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if !cfg.DevMode() {
		t.Errorf("DevMode() = false for environment %q, want true for local", cfg.Environment)
	}
	if cfg.Store.Driver != config.DriverMemory {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, config.DriverMemory)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Environment != config.EnvProduction {
		t.Errorf("Environment = %q, want %q", cfg.Environment, config.EnvProduction)
	}
	if cfg.DevMode() {
		t.Error("DevMode() = true, want false for prod")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want \"json\"", cfg.Log.Format)
	}
	if cfg.Store.Driver != config.DriverMongo {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, config.DriverMongo)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.Endpoint == "" {
		t.Error("Telemetry.Endpoint is empty, want non-empty for prod")
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Store.Mongo.Collection != "projects" {
		t.Errorf("Store.Mongo.Collection = %q, want \"projects\" (from base)", cfg.Store.Mongo.Collection)
	}
	if cfg.Store.CircuitBreaker.MaxFailures != 5 {
		t.Errorf("Store.CircuitBreaker.MaxFailures = %d, want 5 (from base)",
			cfg.Store.CircuitBreaker.MaxFailures)
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// Not present in any YAML file.
	if cfg.Store.Mongo.ConnectAttempts != 3 {
		t.Errorf("Store.Mongo.ConnectAttempts = %d, want 3 (default)", cfg.Store.Mongo.ConnectAttempts)
	}
	if cfg.Store.Mongo.MaxConnIdleTime != 5*time.Minute {
		t.Errorf("Store.Mongo.MaxConnIdleTime = %v, want 5m (default)", cfg.Store.Mongo.MaxConnIdleTime)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "15s")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := 15 * time.Second
	if cfg.Server.ReadTimeout != want {
		t.Errorf("Server.ReadTimeout = %v, want %v (env override)", cfg.Server.ReadTimeout, want)
	}
}

func TestLoad_EnvOverrideDeeplyNestedKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_STORE_MONGO_CONNECT_ATTEMPTS", "7")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Store.Mongo.ConnectAttempts != 7 {
		t.Errorf("Store.Mongo.ConnectAttempts = %d, want 7 (env override)", cfg.Store.Mongo.ConnectAttempts)
	}
}

func TestLoad_EnvOverrideEnvironment(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_ENVIRONMENT", "production")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.DevMode() {
		t.Error("DevMode() = true, want false after APP_ENVIRONMENT=production")
	}
}

func TestLoad_ConfigDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "server:\n  port: 7070\n")
	writeFile(t, filepath.Join(dir, "ci.yaml"), "log:\n  level: warn\n")
	t.Setenv("APP_CONFIG_DIR", dir)

	cfg, err := config.Load("ci")
	if err != nil {
		t.Fatalf("Load(\"ci\") error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 (from APP_CONFIG_DIR base)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
	// Everything else comes from the embedded defaults.
	if cfg.Store.Driver != config.DriverMemory {
		t.Errorf("Store.Driver = %q, want %q (default)", cfg.Store.Driver, config.DriverMemory)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 15s (default)", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_WithConfigDirOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "server:\n  port: 6060\n")
	writeFile(t, filepath.Join(dir, "ci.yaml"), "{}\n")
	t.Setenv("APP_CONFIG_DIR", filepath.Join(dir, "missing"))

	cfg, err := config.Load("ci", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want 6060", cfg.Server.Port)
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestLoad_RejectsUnsafeProfile(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "   ", "../etc", `a\b`, "a/b"} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid config", func(*config.Config) {}, false},
		{"invalid port", func(c *config.Config) { c.Server.Port = 0 }, true},
		{"invalid log level", func(c *config.Config) { c.Log.Level = "verbose" }, true},
		{"invalid environment", func(c *config.Config) { c.Environment = "staging" }, true},
		{"unknown store driver", func(c *config.Config) { c.Store.Driver = "postgres" }, true},
		{"mongo without uri", func(c *config.Config) {
			c.Store.Driver = config.DriverMongo
			c.Store.Mongo.URI = ""
		}, true},
		{"mongo pool bounds inverted", func(c *config.Config) {
			c.Store.Driver = config.DriverMongo
			c.Store.Mongo.MinPoolSize = 200
		}, true},
		{"mongo settings ignored for memory driver", func(c *config.Config) {
			c.Store.Mongo = config.MongoConfig{}
		}, false},
		{"rate limit without burst", func(c *config.Config) {
			c.Store.RateLimit = config.RateLimitConfig{OperationsPerSecond: 100}
		}, true},
		{"circuit breaker without failures", func(c *config.Config) { c.Store.CircuitBreaker.MaxFailures = 0 }, true},
		{"otlp without endpoint", func(c *config.Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "otlp"
			c.Telemetry.Endpoint = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Environment: config.EnvTest,
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Store: config.StoreConfig{
			Driver: config.DriverMemory,
			Mongo: config.MongoConfig{
				URI:             "mongodb://localhost:27017",
				Database:        "freelance",
				Collection:      "projects",
				ConnectTimeout:  10 * time.Second,
				MaxPoolSize:     100,
				MinPoolSize:     5,
				ConnectAttempts: 3,
				ConnectInterval: 2 * time.Second,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Telemetry: config.TelemetryConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
	}
}
