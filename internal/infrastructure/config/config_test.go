package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "https://fakestoreapi.com/products", cfg.Catalog.URL)
	assert.Equal(t, time.Duration(0), cfg.Catalog.Timeout)
	assert.Equal(t, 1000.0, cfg.Catalog.DefaultMaxPrice)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "shopHub-cart", cfg.Storage.CartKey)
	assert.Equal(t, "isAuthenticated", cfg.Storage.SessionKey)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, int64(1), cfg.Auth.UserID)
	assert.Equal(t, 2*time.Second, cfg.Checkout.Delay)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, "shophub-api", cfg.OTLP.ServiceName)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("CHECKOUT_DELAY", "150ms")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 4, cfg.Storage.Redis.DB)
	assert.Equal(t, 150*time.Millisecond, cfg.Checkout.Delay)
	assert.True(t, cfg.OTLP.Enabled)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shophub.yaml")
	content := `
storage:
  driver: memory
catalog:
  url: http://catalog.local/products
  default_max_price: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CATALOG_URL", "http://override.local/products")

	cfg, err := LoadConfig([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 500.0, cfg.Catalog.DefaultMaxPrice)
	assert.Equal(t, "http://override.local/products", cfg.Catalog.URL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfig_StringMasksPassword(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.NotContains(t, cfg.String(), "password=password")
	assert.Contains(t, cfg.String(), "auth_password=***")
}
