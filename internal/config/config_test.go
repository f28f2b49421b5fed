package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "vault.db", c.DatabaseDSN)
	assert.Equal(t, 30*time.Second, c.SyncTimeout)
	assert.Equal(t, 5*time.Minute, c.AutoSyncInterval)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_dsn":       "/tmp/other.db",
		"sync_timeout":       "10s",
		"auto_sync_interval": "90s",
		"s3_bucket":          "vault-backups",
		"s3_base_endpoint":   "http://localhost:9000",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "/tmp/other.db", cfg.DatabaseDSN)
		assert.Equal(t, 10*time.Second, cfg.SyncTimeout)
		assert.Equal(t, 90*time.Second, cfg.AutoSyncInterval)
		assert.Equal(t, "vault-backups", cfg.S3Bucket)
		assert.Equal(t, "http://localhost:9000", cfg.S3BaseEndpoint)
		// untouched fields keep their defaults
		assert.Equal(t, "us-east-1", cfg.S3Region)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{DatabaseDSN: "defaults.db"}
		parseJson(cfg)
		assert.Equal(t, "defaults.db", cfg.DatabaseDSN)
	})
}

func Test_parseEnv(t *testing.T) {
	t.Setenv("VAULT_DATABASE_DSN", "/tmp/env.db")
	t.Setenv("VAULT_ACCESS_TOKEN", "tok-env")
	t.Setenv("VAULT_S3_ACCESS_KEY", "AKIA123")
	t.Setenv("VAULT_S3_SECRET_KEY", "shhh")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "/tmp/env.db", cfg.DatabaseDSN)
	assert.Equal(t, "tok-env", cfg.AccessToken)
	assert.Equal(t, "AKIA123", cfg.S3AccessKey)
	assert.Equal(t, "shhh", cfg.S3SecretKey)
	// untouched fields keep their defaults
	assert.Equal(t, 30*time.Second, cfg.SyncTimeout)
}

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-d", "/tmp/flag.db", "-t", "5", "-i", "120"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "/tmp/flag.db", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Second, cfg.SyncTimeout)
	assert.Equal(t, 2*time.Minute, cfg.AutoSyncInterval)
}
