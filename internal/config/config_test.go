package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REQINDEX_CONFIG_PATH", "REQINDEX_SERVER_HOST", "REQINDEX_SERVER_PORT",
		"REQINDEX_DB_PATH", "REQINDEX_LOG_LEVEL", "REQINDEX_LOG_PATH",
		"REQINDEX_TRANSPORT", "REQINDEX_SEED_PATH", "REQINDEX_AUTH_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "reqindex.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, TransportStdio, cfg.Transport.Mode)
	assert.False(t, cfg.Seed.Enabled)
	assert.Empty(t, cfg.Auth.Token)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: 9000
  cors_origins: ["https://city.example"]
db:
  path: /tmp/from-file.db
transport:
  mode: HTTP
seed:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("REQINDEX_CONFIG_PATH", path)
	t.Setenv("REQINDEX_DB_PATH", "/tmp/from-env.db")
	t.Setenv("REQINDEX_AUTH_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://city.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/tmp/from-env.db", cfg.DB.Path)
	assert.Equal(t, TransportHTTP, cfg.Transport.Mode)
	assert.True(t, cfg.Seed.Enabled)
	assert.Empty(t, cfg.Seed.Path)
	assert.Equal(t, "secret", cfg.Auth.Token)
}

func TestLoad_SeedPathEnablesSeeding(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQINDEX_SEED_PATH", "fixtures.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, "fixtures.yaml", cfg.Seed.Path)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQINDEX_SERVER_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQINDEX_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
}
