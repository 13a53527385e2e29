// Package config provides centralized configuration management. Values are
// layered: built-in defaults, an optional YAML config file discovered via
// XDG paths, then HOSTMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
)

const (
	appName = "hostmap"

	strategyPattern = "pattern"
	strategyModel   = "model"

	driverMemory = "memory"
	driverLibsql = "libsql"
)

// Decode converts merged settings (typically viper.AllSettings) into a
// typed Config, applying duration and slice conversion hooks.
func Decode(settings map[string]any) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks for values no command could work with.
func (c *Config) Validate() error {
	switch strings.TrimSpace(c.Extract.Strategy) {
	case "", strategyPattern, strategyModel:
	default:
		return fmt.Errorf("unknown extract strategy: %s", c.Extract.Strategy)
	}

	switch strings.TrimSpace(c.Cache.Driver) {
	case "", driverMemory, driverLibsql:
	default:
		return fmt.Errorf("unknown cache driver: %s", c.Cache.Driver)
	}

	if c.Cache.Enabled && c.Cache.TTL < 0 {
		return errors.New("cache ttl must not be negative")
	}

	if c.Sources.Assets.HostnameColumn < 0 || c.Sources.Assets.GroupColumn < 0 {
		return errors.New("asset source columns must not be negative")
	}
	if c.Sources.Contacts.GroupColumn < 0 {
		return errors.New("contacts group column must not be negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// UsesModelStrategy reports whether extraction is delegated to the
// language model service.
func (c *Config) UsesModelStrategy() bool {
	return strings.TrimSpace(c.Extract.Strategy) == strategyModel
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := gfconfig.GetAppConfigDir(appName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultCachePath returns the XDG-compliant path to the libsql cache file.
func DefaultCachePath() string {
	dataDir := gfconfig.GetAppDataDir(appName)
	if strings.TrimSpace(dataDir) == "" {
		return "./" + appName + ".db"
	}
	return filepath.Join(dataDir, appName+".db")
}
