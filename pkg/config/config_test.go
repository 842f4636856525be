package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_StorageConfig(t *testing.T) {
	t.Setenv("STORAGE_ENDPOINT", "http://minio:9000")
	t.Setenv("STORAGE_PUBLIC_URL", "http://cdn.local")
	t.Setenv("STORAGE_DEAL_BUCKET", "deals")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://minio:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "deals", cfg.Storage.DealBucket)
	assert.True(t, cfg.Storage.Enabled())
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("AUTH_JWT_SECRET")
	os.Unsetenv("DEALS_TIMEZONE")
	os.Unsetenv("STORAGE_ENDPOINT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Deals.TimeZone)
	assert.Equal(t, 10, cfg.Deals.TopDefaultLimit)
	assert.Equal(t, 100, cfg.Deals.TopMaxLimit)
	assert.Equal(t, "jwt", cfg.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "development-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimeZone(t *testing.T) {
	t.Setenv("DEALS_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_TokenTTLOverride(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}
