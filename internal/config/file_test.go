package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trilogic.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
problems        = "./problems"
recorder_buffer = 16

db {
  driver = "postgres"
  dsn    = "postgres://db/trilogic"
}

http {
  addr            = ":9090"
  cors_origins    = ["https://tutor.example"]
  request_timeout = "15s"
}
`)
	cfg, err := LoadFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "./problems", cfg.ProblemsPath)
	assert.Equal(t, 16, cfg.RecorderBuffer)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://db/trilogic", cfg.DBDSN)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://tutor.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTP.RequestTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileKeepsUnsetValues(t *testing.T) {
	path := writeConfig(t, `http { addr = "127.0.0.1:8081" }`)
	cfg, err := LoadFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", cfg.HTTP.Addr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 64, cfg.RecorderBuffer)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `problems = "./from-file"`)
	t.Setenv("TRILOGIC_PROBLEMS", "./from-env")

	cfg, err := LoadFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "./from-env", ApplyEnv(cfg).ProblemsPath)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"syntax", `db {`, "failed to parse config file"},
		{"unknown attribute", `colour = "blue"`, "failed to decode config file"},
		{"bad timeout", `http { request_timeout = "soon" }`, "request_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body), DefaultConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.hcl"), DefaultConfig())
	assert.Error(t, err)
}
