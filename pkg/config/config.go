// Package config loads gotikz configuration from a TOML file.
//
// Configuration is entirely optional: every field has a default, a missing
// file yields the defaults, and command-line flags override whatever the
// file says. The file lives at ~/.config/gotikz/config.toml unless the
// GOTIKZ_CONFIG environment variable points elsewhere.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath is the environment variable overriding the config file
// location.
const EnvConfigPath = "GOTIKZ_CONFIG"

// Cache backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	// Engine is the LaTeX executable used for compilation.
	Engine string `toml:"engine"`

	// DisplayDPI is the PNG resolution for interactive display.
	DisplayDPI int `toml:"display_dpi"`

	// FileDPI is the PNG resolution for files written to disk.
	FileDPI int `toml:"file_dpi"`

	Cache   CacheConfig   `toml:"cache"`
	Preview PreviewConfig `toml:"preview"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	// Backend selects the cache implementation: file, redis, or none.
	Backend string `toml:"backend"`

	// Dir is the file backend's directory.
	Dir string `toml:"dir"`

	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Engine:     "xelatex",
		DisplayDPI: 96,
		FileDPI:    300,
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
		Preview: PreviewConfig{
			Addr: "localhost:8080",
		},
	}
}

// Path returns the config file location: GOTIKZ_CONFIG when set, otherwise
// ~/.config/gotikz/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "gotikz", "config.toml"), nil
}

// CacheDir returns the file backend directory, defaulting to a cache
// directory next to the config file.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "gotikz"), nil
}

// Load reads the configuration from the default path. A missing file is
// not an error; a malformed one is.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from an explicit path, filling unset
// fields with defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}

	if len(meta.Undecoded()) > 0 {
		return Default(), fmt.Errorf("parse %s: unknown key %q", path, meta.Undecoded()[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.DisplayDPI < 0 || c.FileDPI < 0 {
		return fmt.Errorf("dpi values must not be negative")
	}
	return nil
}
