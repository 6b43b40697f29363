package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "SERVER_PORT", "STORAGE_BACKEND", "STORAGE_PATH",
		"AUTH_USERNAME", "AUTH_PASSWORD_HASH", "JWT_SECRET", "MQ_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_ADDR", "REDIS_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, "habits.json", cfg.Storage.Path)
	require.False(t, cfg.Auth.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
storage:
  backend: redis
auth:
  enabled: true
  username: sam
redis:
  addr: redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "redis", cfg.Storage.Backend)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "sam", cfg.Auth.Username)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	// untouched sections keep their defaults
	require.Equal(t, "habits.json", cfg.Storage.Path)
	require.Equal(t, 5432, cfg.DB.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, "postgres", cfg.Storage.Backend)
	require.Equal(t, 5433, cfg.DB.Port)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}
