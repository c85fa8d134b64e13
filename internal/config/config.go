// Package config loads the application configuration from YAML. One file,
// one loader, explicit defaults; optional subsystems (cache, archive) stay
// disabled until their section carries an address.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flipwell/compintel/internal/pipeline"
)

// Config is the full application configuration.
type Config struct {
	Analyzer pipeline.Config `yaml:"analyzer"`

	// VocabPath points at the versioned synonym tables; empty means the
	// built-in defaults.
	VocabPath string `yaml:"vocab_path"`

	Batch struct {
		// MaxAssets bounds one request's batch size.
		MaxAssets int `yaml:"max_assets"`
		// Workers bounds batch concurrency.
		Workers int `yaml:"workers"`
	} `yaml:"batch"`

	Server struct {
		Host                string `yaml:"host"`
		Port                int    `yaml:"port"`
		ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	} `yaml:"server"`

	Sources struct {
		// BaseURL of the external fetch collaborator; empty disables the
		// client (callers then supply raw rows inline).
		BaseURL string `yaml:"base_url"`
		// RequestsPerSecond paces collaborator calls.
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
	} `yaml:"sources"`

	Cache struct {
		// RedisAddr enables the report cache when set.
		RedisAddr  string `yaml:"redis_addr"`
		DB         int    `yaml:"db"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	Archive struct {
		// PostgresDSN enables the run archive when set.
		PostgresDSN    string `yaml:"postgres_dsn"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"archive"`
}

// Default returns the production defaults.
func Default() *Config {
	c := &Config{Analyzer: pipeline.DefaultConfig()}
	c.Batch.MaxAssets = 5
	c.Batch.Workers = pipeline.DefaultWorkers
	c.Server.Host = "127.0.0.1"
	c.Server.Port = 8088
	c.Server.ReadTimeoutSeconds = 10
	c.Server.WriteTimeoutSeconds = 30
	c.Sources.RequestsPerSecond = 1.0
	c.Sources.TimeoutSeconds = 30
	c.Cache.TTLSeconds = int((6 * time.Hour).Seconds())
	c.Archive.TimeoutSeconds = 5
	return c
}

// Load reads path over the defaults. A missing file is an error; use
// Default() directly when running without one.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects configurations the pipeline cannot run under.
func (c *Config) Validate() error {
	if c.Batch.MaxAssets <= 0 {
		return fmt.Errorf("batch.max_assets must be positive, got %d", c.Batch.MaxAssets)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Analyzer.Classifier.FloorAmount < 0 {
		return fmt.Errorf("analyzer.classifier.floor_amount must not be negative")
	}
	if c.Sources.BaseURL != "" && c.Sources.RequestsPerSecond <= 0 {
		return fmt.Errorf("sources.requests_per_second must be positive when sources.base_url is set")
	}
	return nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

func (c *Config) SourcesTimeout() time.Duration {
	return time.Duration(c.Sources.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) ArchiveTimeout() time.Duration {
	return time.Duration(c.Archive.TimeoutSeconds) * time.Second
}
