// Package config assembles runtime settings from defaults, an optional JSON
// file, environment variables (with .env support) and command-line flags, in
// that order. Later sources win.
package config

import "time"

// Config holds runtime settings for the vault CLI.
//
// S3* fields point at the remote blob store (AWS or any S3-compatible server
// such as MinIO when S3BaseEndpoint is set). AuthBaseURL and AccessToken
// identify the hosted auth service session; both may stay empty for fully
// offline use.
type Config struct {
	DatabaseDSN string

	AuthBaseURL string
	AccessToken string

	SyncTimeout      time.Duration
	AutoSyncInterval time.Duration

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "vault.db"
	c.SyncTimeout = 30 * time.Second
	c.AutoSyncInterval = 5 * time.Minute
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
