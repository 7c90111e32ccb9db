// Package config provides configuration management for the dashboard
// service. It handles the YAML configuration file covering the data source,
// the HTTP server and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for configuration validation
var (
	ErrInvalidTimeout  = errors.New("invalid data timeout duration")
	ErrInvalidCacheTTL = errors.New("invalid data cache_ttl duration")
)

// Defaults applied when the file omits a value
const (
	DefaultListen    = ":8080"
	DefaultStaticDir = "public"
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 5 * time.Minute
)

// Config represents the top-level configuration structure
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Server    ServerConfig    `yaml:"server"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig configures access to the build farm's published data files
type DataConfig struct {
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	CacheTTL string `yaml:"cache_ttl"`
}

// GetTimeout parses and returns the fetch timeout duration
func (d *DataConfig) GetTimeout() time.Duration {
	if d.Timeout == "" {
		return DefaultTimeout
	}
	timeout, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return timeout
}

// GetCacheTTL parses and returns the catalog freshness window
func (d *DataConfig) GetCacheTTL() time.Duration {
	if d.CacheTTL == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(d.CacheTTL)
	if err != nil {
		return DefaultCacheTTL
	}
	return ttl
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Listen    string `yaml:"listen"`
	StaticDir string `yaml:"static_dir"`
}

// GetListen returns the listen address, defaulted
func (s *ServerConfig) GetListen() string {
	if s.Listen == "" {
		return DefaultListen
	}
	return s.Listen
}

// GetStaticDir returns the dashboard asset directory, defaulted
func (s *ServerConfig) GetStaticDir() string {
	if s.StaticDir == "" {
		return DefaultStaticDir
	}
	return s.StaticDir
}

// LifecycleConfig configures the endoflife.date integration that annotates
// the PHP version catalog with support status.
type LifecycleConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GetLevel returns the log level, defaulted to info
func (l *LogConfig) GetLevel() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

// GetFormat returns the log format, defaulted to text
func (l *LogConfig) GetFormat() string {
	if l.Format == "" {
		return "text"
	}
	return l.Format
}

// Validate checks the configuration for values that cannot be defaulted
// away. Empty fields are fine (defaults apply); present-but-broken fields
// are not.
func (c *Config) Validate() error {
	if c.Data.Timeout != "" {
		if _, err := time.ParseDuration(c.Data.Timeout); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, c.Data.Timeout)
		}
	}
	if c.Data.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Data.CacheTTL); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCacheTTL, c.Data.CacheTTL)
		}
	}
	return nil
}

// LoadConfig loads and parses the configuration from a YAML file
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
