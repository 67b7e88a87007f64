package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/myinvois/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "myinvois.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "sandbox", cfg.Environment)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Empty(t, cfg.Redis.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
environment: production
client_id: file-id
timeout: 5s
server:
  address: ":9090"
  debug: true
redis:
  addr: localhost:6379
  db: 2
`)

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "client_id: file-id\n")
	t.Setenv("MYINVOIS_CLIENT_ID", "env-id")
	t.Setenv("MYINVOIS_SERVER_ADDRESS", ":7070")

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, ":7070", cfg.Server.Address)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{Environment: "staging", Timeout: 0, Redis: config.RedisConfig{DB: -1}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "redis.db")
}

func TestValidateCredentials(t *testing.T) {
	cfg := &config.Config{Environment: "sandbox", Timeout: time.Second}

	err := cfg.ValidateCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MYINVOIS_CLIENT_ID")
	assert.Contains(t, err.Error(), "MYINVOIS_CLIENT_SECRET")

	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	assert.NoError(t, cfg.ValidateCredentials())
}
