package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "appdb")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 5, cfg.DB.MaxSize)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, "Limerick-1.txt", cfg.Upload.AcceptedFilename)
	assert.Equal(t, int64(16*1024*1024), cfg.Upload.MaxBytes)
}

func TestLoadConfigGeneratesSessionSecret(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Session.Secret)

	// A second load must produce a different random secret.
	cfg2, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEqual(t, cfg.Session.Secret, cfg2.Session.Secret)
}

func TestLoadConfigExplicitValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_POOL_SIZE", "12")
	t.Setenv("SESSION_SECRET", "fixed-secret")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("UPLOAD_DIR", "/var/data/uploads")
	t.Setenv("UPLOAD_ACCEPTED_FILENAME", "Sonnet-18.txt")
	t.Setenv("PORT", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 12, cfg.DB.MaxSize)
	assert.Equal(t, "fixed-secret", cfg.Session.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, "/var/data/uploads", cfg.Upload.Dir)
	assert.Equal(t, "Sonnet-18.txt", cfg.Upload.AcceptedFilename)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	// Only one of the required variables set.
	t.Setenv("DB_USER", "app")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoadConfigInvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("SESSION_LIFETIME", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "SESSION_LIFETIME")
}
