// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// ListenAddr overrides web_server.host/port from config.json when set.
	ListenAddr string
	ConfigPath string
	UsersPath  string
	Store      string
	DBPath     string

	PollInterval   time.Duration
	ProbeTimeout   time.Duration
	SessionTimeout time.Duration
	CommandTimeout time.Duration
	RemoteTimeout  time.Duration

	LogLevel  slog.Level
	LogFormat string

	// BootstrapAdminPassword creates an "admin" account when no users exist.
	BootstrapAdminPassword string
}

// UseSQLite reports whether users and devices live in the SQLite database.
func (c *Config) UseSQLite() bool {
	return c.Store == StoreSQLite
}

// Load reads configuration from HOMEPANEL_* environment variables and returns
// a validated Config. Every variable is optional. Malformed durations, an
// unknown store, level or format fail fast.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:             os.Getenv("HOMEPANEL_LISTEN_ADDR"),
		ConfigPath:             envOr("HOMEPANEL_CONFIG_PATH", "config.json"),
		UsersPath:              envOr("HOMEPANEL_USERS_PATH", "config/users.json"),
		Store:                  strings.ToLower(envOr("HOMEPANEL_STORE", StoreJSON)),
		DBPath:                 envOr("HOMEPANEL_DB_PATH", "homepanel.db"),
		LogFormat:              strings.ToLower(envOr("HOMEPANEL_LOG_FORMAT", LogFormatText)),
		BootstrapAdminPassword: os.Getenv("HOMEPANEL_BOOTSTRAP_ADMIN_PASSWORD"),
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"HOMEPANEL_POLL_INTERVAL", 30 * time.Second, &cfg.PollInterval},
		{"HOMEPANEL_PROBE_TIMEOUT", 2 * time.Second, &cfg.ProbeTimeout},
		{"HOMEPANEL_SESSION_TIMEOUT", time.Hour, &cfg.SessionTimeout},
		{"HOMEPANEL_COMMAND_TIMEOUT", 30 * time.Second, &cfg.CommandTimeout},
		{"HOMEPANEL_REMOTE_TIMEOUT", 30 * time.Second, &cfg.RemoteTimeout},
	}
	for _, d := range durations {
		*d.dest = d.def
		v, ok := os.LookupEnv(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s has invalid duration %q: %w", d.key, v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %q", d.key, v)
		}
		*d.dest = parsed
	}

	switch cfg.Store {
	case StoreJSON, StoreSQLite:
	default:
		return nil, fmt.Errorf("HOMEPANEL_STORE must be %q or %q, got %q", StoreJSON, StoreSQLite, cfg.Store)
	}

	switch cfg.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return nil, fmt.Errorf("HOMEPANEL_LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, cfg.LogFormat)
	}

	if v, ok := os.LookupEnv("HOMEPANEL_LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("HOMEPANEL_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
