// Package config loads the node's on-disk configuration: a YAML file
// carrying the core {addr, port, boot-addr, boot-port} record plus the
// ambient logging/cache/warmstart sections every long-lived node needs.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete node configuration.
type Config struct {
	Addr      string `yaml:"addr"`
	Port      int    `yaml:"port"`
	BootAddr  string `yaml:"boot-addr"`
	BootPort  int    `yaml:"boot-port"`

	Logging   LoggingConfig   `yaml:"logging"`
	Cache     CacheConfig     `yaml:"cache"`
	WarmStart WarmStartConfig `yaml:"warm_start"`
	Observe   ObserveConfig   `yaml:"observe"`
	Limits    LimitsConfig    `yaml:"limits"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	OutputFile string `yaml:"output_file"` // empty = stderr
}

// CacheConfig controls the optional Redis read-through cache for remote
// lookup results (internal/cache). Disabled unless Host is set.
type CacheConfig struct {
	Host string        `yaml:"host"`
	Port int           `yaml:"port"`
	DB   int           `yaml:"db"`
	TTL  time.Duration `yaml:"ttl"`
}

// WarmStartConfig controls the optional Postgres-backed routing-table
// snapshot (internal/warmstart). Disabled unless Host is set.
type WarmStartConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	DBName   string        `yaml:"dbname"`
	SSLMode  string        `yaml:"sslmode"`
	Interval time.Duration `yaml:"interval"`
}

// ObserveConfig controls the optional admin websocket feed
// (internal/observe). Disabled unless ListenAddr is set.
type ObserveConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LimitsConfig controls operational bounds the spec leaves unmandated.
type LimitsConfig struct {
	// MaxInFlightConnections bounds concurrent inbound connections being
	// served by the service loop. 0 means unbounded.
	MaxInFlightConnections int `yaml:"max_inflight_connections"`
}

// Load reads and parses path, rejecting any YAML key beyond the ones
// defined above, and applies defaults to the ambient sections.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if (c.BootAddr == "") != (c.BootPort <= 0) {
		return fmt.Errorf("boot-addr and boot-port must be supplied together")
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.WarmStart.Interval == 0 {
		c.WarmStart.Interval = 5 * time.Minute
	}
	if c.WarmStart.SSLMode == "" {
		c.WarmStart.SSLMode = "disable"
	}
}

// HasBootstrap reports whether a bootstrap peer was configured.
func (c *Config) HasBootstrap() bool {
	return c.BootAddr != "" && c.BootPort > 0
}

// Default returns a minimal default config for generate-config output.
func Default() *Config {
	return &Config{
		Addr: "0.0.0.0",
		Port: 9000,
		Logging: LoggingConfig{
			Level: "info",
		},
		WarmStart: WarmStartConfig{
			SSLMode:  "disable",
			Interval: 5 * time.Minute,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
	}
}

// WriteFile marshals cfg to YAML and writes it to path.
func WriteFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
