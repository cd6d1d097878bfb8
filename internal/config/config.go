// Package config loads the sanctumd TOML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Board    BoardConfig    `toml:"board"`
	API      APIConfig      `toml:"api"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// BoardConfig tunes the optimistic status board.
type BoardConfig struct {
	// Rollback is "video" (revert only the failed video) or "snapshot"
	// (restore the whole board as it was before the move).
	Rollback string `toml:"rollback"`
}

// APIConfig limits request throughput. A zero rate disables limiting.
type APIConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// EventsConfig controls the event log retention. Events older than
// Retention are pruned every PruneInterval; a zero Retention keeps everything.
type EventsConfig struct {
	Retention     Duration `toml:"retention"`
	PruneInterval Duration `toml:"prune_interval"`
}

// Duration is a time.Duration written as a Go duration string ("720h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8484
	DefaultLogLevel      = "info"
	DefaultDatabasePath  = "./data/sanctum.db"
	DefaultRollback      = "video"
	DefaultRate          = 20
	DefaultBurst         = 40
	DefaultRetention     = 30 * 24 * time.Hour
	DefaultPruneInterval = time.Hour
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(nil)
	return cfg
}

// Load reads, substitutes, parses and validates the configuration file.
// Unresolved environment variables and validation failures are reported
// together as a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults(&md)

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return &cfg, nil
}

// applyDefaults fills unset fields. When md is given, keys present in the
// file are respected even if they hold a zero value, so "requests_per_second
// = 0" really disables limiting.
func (c *Config) applyDefaults(md *toml.MetaData) {
	defined := func(key ...string) bool { return md != nil && md.IsDefined(key...) }

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Board.Rollback == "" {
		c.Board.Rollback = DefaultRollback
	}
	if !defined("api", "requests_per_second") {
		c.API.RequestsPerSecond = DefaultRate
	}
	if !defined("api", "burst") {
		c.API.Burst = DefaultBurst
	}
	if !defined("events", "retention") {
		c.Events.Retention.Duration = DefaultRetention
	}
	if c.Events.PruneInterval.Duration == 0 {
		c.Events.PruneInterval.Duration = DefaultPruneInterval
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
