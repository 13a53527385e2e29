package config

import (
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Cache   CacheConfig   `mapstructure:"cache"`
	Sources SourcesConfig `mapstructure:"sources"`
	Extract ExtractConfig `mapstructure:"extract"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CacheConfig controls the lookup cache. The memory driver is the default;
// the libsql driver persists entries across runs, either on a local file or
// a remote Turso database.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	TTL       time.Duration `mapstructure:"ttl"`
	Driver    string        `mapstructure:"driver"`
	Path      string        `mapstructure:"path"`
	URL       string        `mapstructure:"url"`
	AuthToken string        `mapstructure:"auth_token"`
}

// SourcesConfig locates the two reference tables.
type SourcesConfig struct {
	Assets   AssetsSourceConfig   `mapstructure:"assets"`
	Contacts ContactsSourceConfig `mapstructure:"contacts"`
}

// AssetsSourceConfig describes the asset inventory: which file to read and
// which columns carry the hostname and its support group.
type AssetsSourceConfig struct {
	Path           string `mapstructure:"path"`
	HostnameColumn int    `mapstructure:"hostname_column"`
	GroupColumn    int    `mapstructure:"group_column"`
}

// ContactsSourceConfig describes the contact roster. Columns set to -1 are
// treated as absent from the source.
type ContactsSourceConfig struct {
	Path              string `mapstructure:"path"`
	GroupColumn       int    `mapstructure:"group_column"`
	OwnerColumn       int    `mapstructure:"owner_column"`
	EmailsColumn      int    `mapstructure:"emails_column"`
	IndividualsColumn int    `mapstructure:"individuals_column"`
	NotesColumn       int    `mapstructure:"notes_column"`
}

// ExtractConfig selects and tunes the hostname extraction strategy.
// Valid strategies: pattern, model.
type ExtractConfig struct {
	Strategy string      `mapstructure:"strategy"`
	Marker   string      `mapstructure:"marker"`
	Model    ModelConfig `mapstructure:"model"`
}

// ModelConfig contains the language model provider settings used by the
// model extraction strategy.
type ModelConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ServerConfig contains HTTP server configuration for serve mode.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration.
// Valid levels: trace, debug, info, warn, error.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Defaults returns the built-in configuration values applied before any
// file or environment override.
func Defaults() map[string]any {
	// Keys with empty defaults are still registered so environment
	// overrides are picked up for them.
	return map[string]any{
		"cache.enabled":    true,
		"cache.ttl":        "1h",
		"cache.driver":     "memory",
		"cache.url":        "",
		"cache.auth_token": "",

		"sources.assets.path":            "",
		"sources.assets.hostname_column": 0,
		"sources.assets.group_column":    6,

		"sources.contacts.path":               "",
		"sources.contacts.group_column":       0,
		"sources.contacts.owner_column":       1,
		"sources.contacts.emails_column":      2,
		"sources.contacts.individuals_column": 3,
		"sources.contacts.notes_column":       4,

		"extract.strategy":          "pattern",
		"extract.marker":            "Server:",
		"extract.model.api_key":     "",
		"extract.model.base_url":    "https://api.openai.com/v1",
		"extract.model.model":       "gpt-4o-mini",
		"extract.model.temperature": 0.0,
		"extract.model.timeout":     "60s",

		"server.host":             "127.0.0.1",
		"server.port":             8080,
		"server.read_timeout":     "15s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "60s",
		"server.shutdown_timeout": "10s",

		"logging.level": "info",
	}
}
