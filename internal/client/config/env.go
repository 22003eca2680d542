package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIBaseURL          = "JOBTRACKER_API_URL"
	EnvDatabasePath        = "JOBTRACKER_DB_PATH"
	EnvRequestTimeout      = "JOBTRACKER_REQUEST_TIMEOUT"
	EnvOnlineCheckInterval = "JOBTRACKER_ONLINE_CHECK_INTERVAL"
	EnvLogLevel            = "JOBTRACKER_LOG_LEVEL"
)

// dotEnvFile is loaded into the process environment before the variables
// are read. Variables already set win over the file.
var dotEnvFile = ".env"

// parseEnv overlays Config with JOBTRACKER_* environment variables.
// Durations use time.ParseDuration syntax ("30s", "2m"). Panics on a
// malformed .env file or duration.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		cfg.RequestTimeout = mustDuration(v)
	}
	if v := os.Getenv(EnvOnlineCheckInterval); v != "" {
		cfg.OnlineCheckInterval = mustDuration(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
