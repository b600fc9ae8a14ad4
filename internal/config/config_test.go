package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ENCRYPTION_KEY", "enc")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"STORE_DRIVER", "HTTP_PORT", "CORS_ORIGINS", "MAX_UPLOAD_SIZE", "MAX_MESSAGE_LENGTH", "REDIS_ADDR", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, int64(50_000_000), cfg.MaxUploadBytes)
	assert.Equal(t, 5000, cfg.MaxMessageLength)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL())
	assert.Empty(t, cfg.RedisAddr)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LEGACY_ENCRYPTION_KEYS", "k1,k2")
	t.Setenv("MAX_UPLOAD_SIZE", "2 MiB")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"k1", "k2"}, cfg.LegacyEncryptKeys)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", "enc")
	_, err := config.Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ENCRYPTION_KEY", "")
	_, err = config.Load()
	assert.ErrorContains(t, err, "ENCRYPTION_KEY")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
