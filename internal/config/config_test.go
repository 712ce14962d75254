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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  path: test.db
jwt:
  secret: short-but-fine-in-debug
  expire_hours: 2
auth:
  bcrypt_cost: 10
storage:
  type: local
  local_path: `+uploads+`
  max_upload_mb: 8
cors:
  allowed_origins:
    - http://localhost:3000
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 4096, cfg.Auth.MaxPasswordLength, "default applies")
	assert.Equal(t, int64(8), cfg.Storage.MaxUploadMB)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)

	_, err = os.Stat(uploads)
	assert.NoError(t, err, "local upload dir is created")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
jwt:
  secret: from-file
storage:
  local_path: `+t.TempDir()+`
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_HOST", "db.internal")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
storage:
  local_path: `+t.TempDir()+`
`)
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
storage:
  local_path: `+t.TempDir()+`
`)
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
