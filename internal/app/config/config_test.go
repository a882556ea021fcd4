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
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, "0.06165", cfg.Pricing.BuyerProtectionRate)
	assert.Equal(t, 3*time.Second, cfg.Favorites.ReconcileTimeout)
	assert.Equal(t, "marketplace_db", cfg.MongoDB.Database)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
env: test
storage: mongo
http_server:
  port: "9000"
favorites:
  reconcile_timeout: 250ms
pricing:
  buyer_protection_rate: "0.05"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "9000", cfg.HTTPServer.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Favorites.ReconcileTimeout)
	assert.Equal(t, "0.05", cfg.Pricing.BuyerProtectionRate)
}
