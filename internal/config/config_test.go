package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, 10, cfg.WorkerCount)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "achariya.app", cfg.AccountDomain)
	assert.False(t, cfg.Production())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ENV", "production")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.Production())
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DATABASE=canteen_test\nQUEUE_SIZE=64\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MONGO_DATABASE")
		os.Unsetenv("QUEUE_SIZE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "canteen_test", cfg.MongoDatabase)
	assert.Equal(t, 64, cfg.QueueSize)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("WORKER_COUNT", "0")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "WORKER_COUNT")
}
