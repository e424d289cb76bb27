// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/terrenos/pkg/logger"
)

// Catalog source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host            string          `yaml:"host"`
	Port            int             `yaml:"port"`
	ReadTimeout     time.Duration   `yaml:"read_timeout"`
	WriteTimeout    time.Duration   `yaml:"write_timeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RateLimitConfig defines the API token bucket.
type RateLimitConfig struct {
	Enabled   bool    `yaml:"enabled"`
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CatalogConfig defines where the catalog is loaded from and how often it
// is reloaded.
type CatalogConfig struct {
	Source         string        `yaml:"source"` // file, postgres, sqlite
	ListingsPath   string        `yaml:"listings_path"`
	SourcesPath    string        `yaml:"sources_path"`
	ReloadInterval time.Duration `yaml:"reload_interval"` // 0 disables reloads
	LoadTimeout    time.Duration `yaml:"load_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// SQLiteConfig defines the embedded SQLite catalog store.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// TracingConfig defines the OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, console
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config content, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// UsesStore reports whether the catalog is read from a database.
func (c *CatalogConfig) UsesStore() bool {
	return c.Source == SourcePostgres || c.Source == SourceSQLite
}

// Default returns a configuration with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCatalogDefaults(&cfg.Catalog)
	applyDatabaseDefaults(&cfg.Database)
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "data/terrenos.db"
	}
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 20
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 40
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Source == "" {
		c.Source = SourceFile
	}
	if c.ListingsPath == "" {
		c.ListingsPath = "docs/data/listings.json"
	}
	if c.SourcesPath == "" {
		c.SourcesPath = "docs/data/sources.json"
	}
	if c.LoadTimeout == 0 {
		c.LoadTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "terrenos"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}
	if cfg.Server.RateLimit.Enabled {
		if cfg.Server.RateLimit.PerSecond < 0 {
			errs = append(errs, errors.New("server.rate_limit.per_second must be positive"))
		}
		if cfg.Server.RateLimit.Burst < 1 {
			errs = append(errs, errors.New("server.rate_limit.burst must be at least 1"))
		}
	}

	switch cfg.Catalog.Source {
	case SourceFile, SourceSQLite:
	case SourcePostgres:
		if err := cfg.Database.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("catalog.source is postgres: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"catalog.source must be one of: file, postgres, sqlite (got %q)", cfg.Catalog.Source,
		))
	}
	if cfg.Catalog.ReloadInterval < 0 {
		errs = append(errs, errors.New("catalog.reload_interval must not be negative"))
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing.endpoint is required when tracing is enabled"))
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be between 0 and 1 (got %v)", cfg.Tracing.SampleRatio))
	}

	if _, err := logger.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if _, err := logger.ParseFormat(cfg.Logging.Format); err != nil {
		errs = append(errs, fmt.Errorf("logging.format: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks the fields required to connect.
func (d *DatabaseConfig) Validate() error {
	var errs []error
	if d.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if d.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	return errors.Join(errs...)
}
