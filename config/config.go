// Package config loads process-wide rdfstore settings.
//
// Settings come from defaults, an optional config file named by
// RDFSTORE_CONFIG (yaml, toml or json by extension) and RDFSTORE_*
// environment variables, in increasing order of precedence. Nested keys map
// to variables by replacing "." with "_", so sqlite.path is read from
// RDFSTORE_SQLITE_PATH.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RDFSTORE"

// Keys understood by Load.
const (
	KeyConfigFile    = "config"
	KeyBackend       = "backend"
	KeySQLitePath    = "sqlite.path"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyDeterministic = "deterministic"
	KeySeed          = "seed"
)

// Log defaults, also used in place of unknown values.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds resolved settings.
type Config struct {
	Backend       string       `mapstructure:"backend"`
	SQLite        SQLiteConfig `mapstructure:"sqlite"`
	Log           LogConfig    `mapstructure:"log"`
	Deterministic bool         `mapstructure:"deterministic"`
	Seed          string       `mapstructure:"seed"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewViper returns a viper instance with defaults and environment binding
// applied. Callers may bind flags to it before passing it to LoadFrom.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, "memory")
	v.SetDefault(KeySQLitePath, ":memory:")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyDeterministic, false)
	v.SetDefault(KeySeed, "rdfstore")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves configuration from the environment and the optional config file.
func Load() (*Config, error) {
	return LoadFrom(NewViper())
}

// LoadFrom resolves configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.normalizeLog()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":      "LoadFrom",
		"backend":       cfg.Backend,
		"sqlite_path":   cfg.SQLite.Path,
		"log_level":     cfg.Log.Level,
		"deterministic": cfg.Deterministic,
		"config_file":   v.ConfigFileUsed(),
	}).Debug("Loaded configuration")

	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Backend: "memory",
		SQLite:  SQLiteConfig{Path: ":memory:"},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Seed:    "rdfstore",
	}
}

// normalizeLog replaces an unknown log level or format with the default and
// warns. Logging settings never make configuration fail.
func (c *Config) normalizeLog() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "normalizeLog",
			"key":      KeyLogLevel,
			"value":    c.Log.Level,
		}).Warn("Unknown log level, using warn")
		c.Log.Level = DefaultLogLevel
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "text", "json":
	default:
		logrus.WithFields(logrus.Fields{
			"function": "normalizeLog",
			"key":      KeyLogFormat,
			"value":    c.Log.Format,
		}).Warn("Unknown log format, using text")
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks the settings that select and seed the store. Log settings
// are normalized by LoadFrom instead.
func (c *Config) Validate() error {
	switch c.Backend {
	case "memory":
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("%w: %s must be set for the sqlite backend", ErrInvalidConfig, KeySQLitePath)
		}
	default:
		return fmt.Errorf("%w: %s must be memory or sqlite, got %q", ErrInvalidConfig, KeyBackend, c.Backend)
	}
	if c.Deterministic && c.Seed == "" {
		return fmt.Errorf("%w: %s must be non-empty in deterministic mode", ErrInvalidConfig, KeySeed)
	}
	return nil
}
