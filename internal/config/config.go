// Package config manages pubsubwire daemon configuration using koanf/v2.
//
// Supports YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete pubsubwire configuration.
type Config struct {
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	Auth    AuthConfig    `koanf:"auth"`
	Replay  ReplayConfig  `koanf:"replay"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// AuthConfig holds the HMAC authentication parameters (spec §4.4-§4.5).
type AuthConfig struct {
	// Secret is the shared HMAC secret. Left empty in the YAML file on
	// purpose; populate via PUBSUBWIRE_AUTH_SECRET so it never lands on
	// disk next to the rest of the config.
	Secret string `koanf:"secret"`

	// TokenLifetime bounds how far a token's timestamp may drift from now
	// before GetToken rejects it outright (spec §4.5).
	TokenLifetime time.Duration `koanf:"token_lifetime"`
}

// ReplayConfig selects and configures the replay.Store backend (spec §4.6).
type ReplayConfig struct {
	// Backend is one of "none", "reentrant", or "sqlite".
	Backend string `koanf:"backend"`

	// SQLitePath is the database file path, required when Backend is
	// "sqlite".
	SQLitePath string `koanf:"sqlite_path"`

	// CleanupBatchDelay is the minimum spacing between reaper sweeps
	// (spec §4.6).
	CleanupBatchDelay time.Duration `koanf:"cleanup_batch_delay"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			TokenLifetime: 5 * time.Minute,
		},
		Replay: ReplayConfig{
			Backend:           "reentrant",
			CleanupBatchDelay: 10 * time.Second,
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for pubsubwire configuration.
// Variables are named PUBSUBWIRE_<section>_<key>, e.g., PUBSUBWIRE_AUTH_SECRET.
const envPrefix = "PUBSUBWIRE_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (PUBSUBWIRE_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	PUBSUBWIRE_METRICS_ADDR         -> metrics.addr
//	PUBSUBWIRE_METRICS_PATH         -> metrics.path
//	PUBSUBWIRE_LOG_LEVEL            -> log.level
//	PUBSUBWIRE_LOG_FORMAT           -> log.format
//	PUBSUBWIRE_AUTH_SECRET          -> auth.secret
//	PUBSUBWIRE_AUTH_TOKEN_LIFETIME  -> auth.token_lifetime
//	PUBSUBWIRE_REPLAY_BACKEND       -> replay.backend
//	PUBSUBWIRE_REPLAY_SQLITE_PATH   -> replay.sqlite_path
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load defaults first.
	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	// Load YAML file on top of defaults.
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	// Load environment variable overrides on top of YAML.
	// PUBSUBWIRE_AUTH_SECRET -> auth.secret (strip prefix, lowercase, first _ -> .).
	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms PUBSUBWIRE_AUTH_TOKEN_LIFETIME -> auth.token_lifetime.
// Strips the PUBSUBWIRE_ prefix, lowercases, and replaces the first _ (the
// section separator) with .; later underscores stay part of the key name.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"metrics.addr":              defaults.Metrics.Addr,
		"metrics.path":              defaults.Metrics.Path,
		"log.level":                 defaults.Log.Level,
		"log.format":                defaults.Log.Format,
		"auth.token_lifetime":       defaults.Auth.TokenLifetime.String(),
		"replay.backend":            defaults.Replay.Backend,
		"replay.cleanup_batch_delay": defaults.Replay.CleanupBatchDelay.String(),
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptySecret indicates no HMAC secret was configured.
	ErrEmptySecret = errors.New("auth.secret must not be empty")

	// ErrInvalidTokenLifetime indicates the token lifetime is non-positive.
	ErrInvalidTokenLifetime = errors.New("auth.token_lifetime must be > 0")

	// ErrInvalidReplayBackend indicates an unrecognized replay.backend value.
	ErrInvalidReplayBackend = errors.New("replay.backend must be none, reentrant, or sqlite")

	// ErrMissingSQLitePath indicates replay.backend=sqlite without a path.
	ErrMissingSQLitePath = errors.New("replay.sqlite_path is required when replay.backend is sqlite")
)

// ValidReplayBackends lists the recognized replay.backend strings.
var ValidReplayBackends = map[string]bool{
	"none":      true,
	"reentrant": true,
	"sqlite":    true,
}

// Validate checks the configuration for logical errors. It does not require
// auth.secret to be set, since keygen/codec subcommands of pubsubwirectl run
// without one; callers that need signing call ValidateAuth explicitly.
func Validate(cfg *Config) error {
	if cfg.Auth.TokenLifetime <= 0 {
		return ErrInvalidTokenLifetime
	}

	if !ValidReplayBackends[cfg.Replay.Backend] {
		return ErrInvalidReplayBackend
	}

	if cfg.Replay.Backend == "sqlite" && cfg.Replay.SQLitePath == "" {
		return ErrMissingSQLitePath
	}

	return nil
}

// ValidateAuth additionally requires a non-empty HMAC secret, for
// subcommands that sign or verify tokens.
func ValidateAuth(cfg *Config) error {
	if cfg.Auth.Secret == "" {
		return ErrEmptySecret
	}
	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
