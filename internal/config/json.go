package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/harinadareddy11/account-vault/internal/flagx"
	"github.com/harinadareddy11/account-vault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file can say either "30s" or integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN      string         `json:"database_dsn"`
	AuthBaseURL      string         `json:"auth_base_url"`
	SyncTimeout      timex.Duration `json:"sync_timeout"`
	AutoSyncInterval timex.Duration `json:"auto_sync_interval"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. No flag, no JSON. Credentials (access token, S3 keys)
// are deliberately not accepted from JSON; they come from the environment.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.AuthBaseURL != "" {
		cfg.AuthBaseURL = jc.AuthBaseURL
	}
	if jc.SyncTimeout.Duration != 0 {
		cfg.SyncTimeout = time.Duration(jc.SyncTimeout.Duration)
	}
	if jc.AutoSyncInterval.Duration != 0 {
		cfg.AutoSyncInterval = time.Duration(jc.AutoSyncInterval.Duration)
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}
