// Package config loads quadro settings from a config file, environment
// variables, and defaults, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fmoraes/quadro/internal/store"
)

// Store backend kinds.
const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

// Config is the full quadro configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Watch  WatchConfig  `mapstructure:"watch" yaml:"watch"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// StoreConfig selects and locates the backing medium.
type StoreConfig struct {
	// Kind is the backend: "csv" or "sqlite".
	Kind string `mapstructure:"kind" yaml:"kind"`
	// Path is the backing file (CSV) or database (SQLite) path.
	Path string `mapstructure:"path" yaml:"path"`
	// Sheet names the tab inside a spreadsheet-backed medium. Opaque to
	// the core; kept for adapters that need it.
	Sheet string `mapstructure:"sheet" yaml:"sheet,omitempty"`
}

// ServerConfig configures the tool server.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// WatchConfig configures the external-edit watcher.
type WatchConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	DebounceMS int  `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// LogConfig configures the rotating server log.
type LogConfig struct {
	// File is the log path; empty logs to stderr only.
	File       string `mapstructure:"file" yaml:"file,omitempty"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Kind: StoreCSV, Path: "quadro.csv"},
		Server: ServerConfig{Port: 8080},
		Watch:  WatchConfig{Enabled: true, DebounceMS: 250},
		Log:    LogConfig{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 30},
	}
}

// Load reads configuration. When path is empty, a quadro.yaml in the
// working directory or under $HOME/.config/quadro is used if present;
// a missing config file is not an error. QUADRO_* environment variables
// override file values (QUADRO_STORE_PATH, QUADRO_SERVER_PORT, ...).
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("store.kind", def.Store.Kind)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.sheet", def.Store.Sheet)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("watch.enabled", def.Watch.Enabled)
	v.SetDefault("watch.debounce_ms", def.Watch.DebounceMS)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age_days", def.Log.MaxAgeDays)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quadro")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/quadro")
		}
	}

	v.SetEnvPrefix("QUADRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Kind {
	case StoreCSV, StoreSQLite:
	default:
		return fmt.Errorf("unknown store kind %q (want %q or %q)", c.Store.Kind, StoreCSV, StoreSQLite)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// OpenStore builds the configured store adapter. SQLite stores must be
// closed by the caller.
func (c *Config) OpenStore() (store.Store, func() error, error) {
	switch c.Store.Kind {
	case StoreCSV:
		return store.NewCSV(c.Store.Path), func() error { return nil }, nil
	case StoreSQLite:
		s, err := store.OpenSQLite(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
}

// WriteStarter writes a starter config file with the defaults. Fails if
// the file already exists.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal starter config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
