package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDotEnv(t *testing.T, contents string) {
	t.Helper()
	orig := dotEnvFile
	t.Cleanup(func() { dotEnvFile = orig })

	dotEnvFile = filepath.Join(t.TempDir(), ".env")
	if contents != "" {
		require.NoError(t, os.WriteFile(dotEnvFile, []byte(contents), 0o600))
	}
}

func TestParseEnv(t *testing.T) {
	useDotEnv(t, "")
	t.Setenv(EnvAPIBaseURL, "http://localhost:8000/api")
	t.Setenv(EnvDatabasePath, "env.db")
	t.Setenv(EnvRequestTimeout, "2m")
	t.Setenv(EnvOnlineCheckInterval, "5s")
	t.Setenv(EnvLogLevel, "debug")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, Config{
		APIBaseURL:          "http://localhost:8000/api",
		DatabasePath:        "env.db",
		RequestTimeout:      2 * time.Minute,
		OnlineCheckInterval: 5 * time.Second,
		LogLevel:            "debug",
	}, *cfg)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	// Make sure the variable is unset and restored after the test; godotenv
	// writes straight into the process environment.
	t.Setenv(EnvDatabasePath, "")
	require.NoError(t, os.Unsetenv(EnvDatabasePath))
	t.Setenv(EnvLogLevel, "error")

	useDotEnv(t, "JOBTRACKER_DB_PATH=dotenv.db\nJOBTRACKER_LOG_LEVEL=debug\n")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "dotenv.db", cfg.DatabasePath)
	assert.Equal(t, "error", cfg.LogLevel, "process environment wins over .env")
}

func TestParseEnv_BadDuration(t *testing.T) {
	useDotEnv(t, "")
	t.Setenv(EnvRequestTimeout, "soon")

	require.Panics(t, func() { parseEnv(&Config{}) })
}
