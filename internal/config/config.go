// Package config holds process-wide settings for the CLI and the HTTP API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/trilogic/internal/auth"
	"github.com/abhisek/trilogic/internal/recorder"
	"github.com/abhisek/trilogic/internal/store"
)

// Config holds all runtime configuration.
type Config struct {
	// DBDriver selects the event store backend: "sqlite" or "postgres".
	DBDriver string

	// DBDSN is the SQLite path or the Postgres connection string. Empty
	// means the default SQLite path.
	DBDSN string

	// ProblemsPath is a problem file or directory. Empty means the built-in
	// bank.
	ProblemsPath string

	HTTP HTTPConfig

	// RecorderBuffer is how many events may wait for the store.
	RecorderBuffer int
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string
	CORSOrigins    []string
	RequestTimeout time.Duration

	// JWTSecret enables bearer-token auth on session routes when set.
	JWTSecret string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBDriver: string(store.DriverSQLite),
		HTTP: HTTPConfig{
			Addr:           ":8080",
			CORSOrigins:    []string{"http://localhost:3000"},
			RequestTimeout: 30 * time.Second,
		},
		RecorderBuffer: recorder.DefaultBuffer,
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() Config {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overrides cfg with any TRILOGIC_* variables that are set.
func ApplyEnv(cfg Config) Config {
	cfg.DBDriver = envOr("TRILOGIC_DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = envOr("TRILOGIC_DB", cfg.DBDSN)
	cfg.ProblemsPath = envOr("TRILOGIC_PROBLEMS", cfg.ProblemsPath)
	cfg.HTTP.Addr = envOr("TRILOGIC_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.CORSOrigins = csvOr("TRILOGIC_CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.HTTP.JWTSecret = envOr("TRILOGIC_JWT_SECRET", cfg.HTTP.JWTSecret)
	cfg.RecorderBuffer = intOr("TRILOGIC_RECORDER_BUFFER", cfg.RecorderBuffer)
	if d, err := time.ParseDuration(os.Getenv("TRILOGIC_HTTP_TIMEOUT")); err == nil && d > 0 {
		cfg.HTTP.RequestTimeout = d
	}

	return cfg
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	drv, err := store.ParseDriver(c.DBDriver)
	if err != nil {
		return err
	}
	if drv == store.DriverPostgres && c.DBDSN == "" {
		return fmt.Errorf("postgres driver requires TRILOGIC_DB to be set")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http address must not be empty")
	}
	if c.HTTP.JWTSecret != "" && len(c.HTTP.JWTSecret) < auth.MinSecretLen {
		return fmt.Errorf("jwt secret must be at least %d bytes", auth.MinSecretLen)
	}
	if c.RecorderBuffer < 1 {
		return fmt.Errorf("recorder buffer must be positive, got %d", c.RecorderBuffer)
	}
	return nil
}

// DSN returns the store DSN, resolving the default SQLite path when unset.
func (c Config) DSN() (string, error) {
	if c.DBDSN != "" {
		return c.DBDSN, nil
	}
	return store.DefaultDBPath()
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func intOr(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
