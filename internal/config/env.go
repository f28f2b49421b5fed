package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables, loading a .env file
// first when one exists. Secrets (access token, S3 credentials) are only
// accepted through this source.
func parseEnv(cfg *Config) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	setIfPresent := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setIfPresent("VAULT_DATABASE_DSN", &cfg.DatabaseDSN)
	setIfPresent("VAULT_AUTH_BASE_URL", &cfg.AuthBaseURL)
	setIfPresent("VAULT_ACCESS_TOKEN", &cfg.AccessToken)
	setIfPresent("VAULT_S3_BUCKET", &cfg.S3Bucket)
	setIfPresent("VAULT_S3_REGION", &cfg.S3Region)
	setIfPresent("VAULT_S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	setIfPresent("VAULT_S3_ACCESS_KEY", &cfg.S3AccessKey)
	setIfPresent("VAULT_S3_SECRET_KEY", &cfg.S3SecretKey)
}
