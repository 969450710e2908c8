// Package config loads and saves the td configuration file.
//
// The file is TOML, by default at <user-config-dir>/td/config.toml. The
// TD_CONFIG environment variable overrides the path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/tdcli/td/internal/debug"
)

// CurrentVersion is the config schema version this build writes. Files with
// a higher version still parse; unknown keys are ignored with a warning.
const CurrentVersion = 1

const (
	appDirName = "td"
	fileName   = "config.toml"
)

// TokenStorage selects where 'td auth set-token' persists the token.
type TokenStorage string

const (
	StorageConfig  TokenStorage = "config"
	StorageKeyring TokenStorage = "keyring"
	StorageEnv     TokenStorage = "env"
)

// Config is the on-disk configuration.
type Config struct {
	Version      int          `toml:"version"`
	Token        string       `toml:"token,omitempty"`
	TokenStorage TokenStorage `toml:"token_storage,omitempty"`
	Output       OutputConfig `toml:"output"`
	Cache        CacheConfig  `toml:"cache"`
}

// OutputConfig controls human-readable rendering.
type OutputConfig struct {
	Color      bool   `toml:"color"`
	DateFormat string `toml:"date_format"` // "relative", "iso", or "short"
}

// CacheConfig controls the local cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration a fresh install starts from.
func Default() *Config {
	return &Config{
		Version:      CurrentVersion,
		TokenStorage: StorageKeyring,
		Output:       OutputConfig{Color: true, DateFormat: "relative"},
		Cache:        CacheConfig{Enabled: true},
	}
}

// Path returns the config file location, honoring TD_CONFIG.
func Path() (string, error) {
	if override := os.Getenv("TD_CONFIG"); override != "" {
		return override, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

// Load reads the config file. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file at an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	cfg := Default()
	v.SetDefault("version", cfg.Version)
	v.SetDefault("token_storage", string(cfg.TokenStorage))
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("output.date_format", cfg.Output.DateFormat)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.Version = v.GetInt("version")
	cfg.Token = v.GetString("token")
	cfg.TokenStorage = TokenStorage(v.GetString("token_storage"))
	cfg.Output.Color = v.GetBool("output.color")
	cfg.Output.DateFormat = v.GetString("output.date_format")
	cfg.Cache.Enabled = v.GetBool("cache.enabled")

	if cfg.Version > CurrentVersion {
		debug.Warnf("td: config version %d is newer than this build supports (%d); unknown options are ignored\n",
			cfg.Version, CurrentVersion)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.TokenStorage {
	case "", StorageConfig, StorageKeyring, StorageEnv:
	default:
		return fmt.Errorf("invalid token_storage %q (want config, keyring, or env)", c.TokenStorage)
	}
	switch c.Output.DateFormat {
	case "", "relative", "iso", "short":
	default:
		return fmt.Errorf("invalid output.date_format %q (want relative, iso, or short)", c.Output.DateFormat)
	}
	return nil
}

// Save writes the config atomically (tmp file, then rename).
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
