// Package models - service configuration and operational settings.
//
// Configuration Philosophy:
// - Hierarchical configuration with logical grouping (server, storage,
//   checker, logging, metrics, observability)
// - Environment-friendly defaults that work out of the box
// - Comprehensive validation to catch misconfigurations early
package models

import (
	"errors"
	"fmt"
	"time"
)

// Storage type constants
const (
	StorageTypeJSON     = "json"
	StorageTypeMemory   = "memory"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// Config is the root configuration structure containing all service settings.
type Config struct {
	Server        ServerConfig        `yaml:"server" json:"server"`               // HTTP status API configuration
	Storage       StorageConfig       `yaml:"storage" json:"storage"`             // Record persistence settings
	Checker       CheckerConfig       `yaml:"checker" json:"checker"`             // Update-check cascade and pacing
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`             // Logging and output configuration
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`             // Prometheus metrics endpoint
	Observability ObservabilityConfig `yaml:"observability" json:"observability"` // Tracing and service identity
}

type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	Host         string        `yaml:"host" json:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
}

type StorageConfig struct {
	Type     string            `yaml:"type" json:"type"`
	Path     string            `yaml:"path" json:"path"`
	Database DatabaseConfig    `yaml:"database" json:"database"`
	Options  map[string]string `yaml:"options" json:"options"`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}

// CheckerConfig controls the update-check cascade and its pacing.
type CheckerConfig struct {
	// Interval between scheduled passes over all tracked applications.
	Interval time.Duration `yaml:"interval" json:"interval"`

	// RequestDelay is the mandatory minimum delay a worker waits between
	// two check cascades, whatever their outcome. Protects the remote
	// sources from request floods.
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`

	// FetchTimeout bounds a single page read. There is no other
	// cancellation for a stuck fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`

	// UserAgent must identify a browser; at least one source rejects
	// non-browser agents.
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// Workers is the number of parallel check workers. Applications are
	// partitioned across workers so at most one check per package is in
	// flight at any time.
	Workers int `yaml:"workers" json:"workers"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"` // stdout or otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
}

// NewDefaultConfig creates a configuration with production-ready defaults.
//
// Default Values Rationale:
// - Port 8080: standard non-privileged HTTP port
// - JSON storage: simple setup without external dependencies
// - 15-second fetch timeout and 2-second request delay: the cadence the
//   remote store pages tolerate
// - Structured JSON logging: better for log aggregation and analysis
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage: StorageConfig{
			Type: StorageTypeJSON,
			Path: "./data/apps.json",
			Database: DatabaseConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
			Options: make(map[string]string),
		},
		Checker: CheckerConfig{
			Interval:     6 * time.Hour,
			RequestDelay: 2 * time.Second,
			FetchTimeout: 15 * time.Second,
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
			Workers:      4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9090,
		},
		Observability: ObservabilityConfig{
			ServiceName: "apptrack",
			Tracing: TracingConfig{
				Enabled:    false,
				Exporter:   "stdout",
				SampleRate: 1.0,
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}
	if err := c.Checker.Validate(); err != nil {
		return fmt.Errorf("invalid checker config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}
	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return fmt.Errorf("invalid port: %d", sc.Port)
	}
	if sc.ReadTimeout < 0 || sc.WriteTimeout < 0 || sc.IdleTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}
	return nil
}

func (sc *StorageConfig) Validate() error {
	switch sc.Type {
	case StorageTypeJSON:
		if sc.Path == "" {
			return errors.New("path is required for JSON storage")
		}
	case StorageTypeMemory:
		// no additional configuration
	case StorageTypePostgres, StorageTypeSQLite:
		if sc.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for %s storage", sc.Type)
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", sc.Type)
	}
	return nil
}

func (cc *CheckerConfig) Validate() error {
	if cc.Interval <= 0 {
		return errors.New("check interval must be positive")
	}
	if cc.RequestDelay < 0 {
		return errors.New("request delay cannot be negative")
	}
	if cc.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if cc.UserAgent == "" {
		return errors.New("user agent cannot be empty")
	}
	if cc.Workers <= 0 {
		return errors.New("worker count must be positive")
	}
	return nil
}

func (lc *LoggingConfig) Validate() error {
	switch lc.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}
	switch lc.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}
	switch lc.Output {
	case "stdout", "stderr":
	case "file":
		if lc.FilePath == "" {
			return errors.New("file path is required when output is file")
		}
	default:
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}
	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}
	if mc.Port <= 0 || mc.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", mc.Port)
	}
	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}
	return nil
}
