// Package config loads and validates llprobe's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds process-wide settings.
type ServerConfig struct {
	Interface   string `toml:"interface"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

// ScanConfig holds the parameters of the ARP probing and batching pipeline.
type ScanConfig struct {
	NRetries        int    `toml:"n_retries"`
	ResponseTimeout string `toml:"response_timeout"`
	CacheTimeout    string `toml:"cache_timeout"`
	BatchSize       int    `toml:"batch_size"`
}

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Scan   ScanConfig   `toml:"scan"`
}

// Load reads, parses, defaults and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in zero-valued fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Interface == "" {
		cfg.Server.Interface = DefaultInterface
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = DefaultLogLevel
	}

	if cfg.Scan.NRetries == 0 {
		cfg.Scan.NRetries = DefaultNRetries
	}
	if cfg.Scan.ResponseTimeout == "" {
		cfg.Scan.ResponseTimeout = DefaultResponseTimeout.String()
	}
	if cfg.Scan.CacheTimeout == "" {
		cfg.Scan.CacheTimeout = DefaultCacheTimeout.String()
	}
	if cfg.Scan.BatchSize == 0 {
		cfg.Scan.BatchSize = DefaultBatchSize
	}
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	if cfg.Server.Interface == "" {
		return fmt.Errorf("server.interface is required")
	}

	if cfg.Scan.NRetries < 1 {
		return fmt.Errorf("scan.n_retries must be >= 1, got %d", cfg.Scan.NRetries)
	}
	if cfg.Scan.BatchSize < 1 {
		return fmt.Errorf("scan.batch_size must be >= 1, got %d", cfg.Scan.BatchSize)
	}
	if _, err := time.ParseDuration(cfg.Scan.ResponseTimeout); err != nil {
		return fmt.Errorf("scan.response_timeout: %w", err)
	}
	if _, err := time.ParseDuration(cfg.Scan.CacheTimeout); err != nil {
		return fmt.Errorf("scan.cache_timeout: %w", err)
	}

	return nil
}

// ResponseTimeoutDuration parses Scan.ResponseTimeout. Validated by Load, so
// the error is only possible when a Config is built by hand without going
// through validate.
func (c *Config) ResponseTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Scan.ResponseTimeout)
}

// CacheTimeoutDuration parses Scan.CacheTimeout.
func (c *Config) CacheTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Scan.CacheTimeout)
}
