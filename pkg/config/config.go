package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	StorageBackendMemory = "memory"
	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Relay struct {
		MessageCapacity int           `yaml:"message_capacity"`
		SessionTTL      time.Duration `yaml:"session_ttl"`
	} `yaml:"relay"`

	Storage struct {
		Backend string `yaml:"backend"` // memory, file or redis
		File    struct {
			DataDir string `yaml:"data_dir"`
		} `yaml:"file"`
		Redis struct {
			Address  string `yaml:"address"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size"`
		} `yaml:"redis"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Upload struct {
		Dir          string `yaml:"dir"`
		MaxSizeBytes int64  `yaml:"max_size_bytes"`
	} `yaml:"upload"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool   `yaml:"enabled"`
		ServiceName string `yaml:"service_name"`
		JaegerURL   string `yaml:"jaeger_url"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	RateLimiting struct {
		Enabled           bool    `yaml:"enabled"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limiting"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	// Server
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	// Relay
	if c.Relay.MessageCapacity < 1 {
		return fmt.Errorf("relay.message_capacity must be >= 1")
	}
	if c.Relay.SessionTTL <= 0 {
		return fmt.Errorf("relay.session_ttl must be > 0")
	}

	// Storage
	switch c.Storage.Backend {
	case StorageBackendMemory:
	case StorageBackendFile:
		if c.Storage.File.DataDir == "" {
			return fmt.Errorf("storage.file.data_dir must not be empty when storage.backend=file")
		}
	case StorageBackendRedis:
		if c.Storage.Redis.Address == "" {
			return fmt.Errorf("storage.redis.address must not be empty when storage.backend=redis")
		}
		if c.Storage.Redis.PoolSize <= 0 {
			return fmt.Errorf("storage.redis.pool_size must be > 0 when storage.backend=redis")
		}
	default:
		return fmt.Errorf("storage.backend must be one of memory, file, redis")
	}

	// Upload
	if c.Upload.Dir == "" {
		return fmt.Errorf("upload.dir must not be empty")
	}
	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload.max_size_bytes must be > 0")
	}

	// Tracing
	if c.Tracing.Enabled {
		if c.Tracing.ServiceName == "" {
			return fmt.Errorf("tracing.service_name must not be empty when tracing.enabled=true")
		}
		if c.Tracing.JaegerURL == "" {
			return fmt.Errorf("tracing.jaeger_url must not be empty when tracing.enabled=true")
		}
	}

	// Logging
	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	// Rate limiting
	if c.RateLimiting.Enabled {
		if c.RateLimiting.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
	}

	return nil
}

// Load reads configuration from YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Relay.MessageCapacity = 100
	cfg.Relay.SessionTTL = time.Hour

	cfg.Storage.Backend = StorageBackendMemory
	cfg.Storage.File.DataDir = "data"
	cfg.Storage.Redis.Address = "localhost:6379"
	cfg.Storage.Redis.DB = 0
	cfg.Storage.Redis.PoolSize = 10
	cfg.Storage.SQLitePath = "data/customers.db"

	cfg.Upload.Dir = "uploads"
	cfg.Upload.MaxSizeBytes = 5 * 1024 * 1024

	cfg.Monitoring.PrometheusEnabled = true

	cfg.Tracing.Enabled = false
	cfg.Tracing.ServiceName = "peerlink-relay"
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 50
	cfg.RateLimiting.Burst = 100

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("PEERLINK_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("PEERLINK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if backend := os.Getenv("PEERLINK_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if addr := os.Getenv("PEERLINK_REDIS_ADDRESS"); addr != "" {
		c.Storage.Redis.Address = addr
	}
}
