package config

import "time"

const (
	DefaultAPIBaseURL   = "https://jobtracker-backend-dwwh.onrender.com/api"
	DefaultDatabasePath = "jobtracker.db"
)

// Config holds runtime settings for the JobTracker CLI.
//
// Fields:
//   - APIBaseURL: absolute URL that replaces the logical /api prefix.
//   - DatabasePath: SQLite file holding the session token.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.DatabasePath = DefaultDatabasePath
	// The hosted API sleeps when idle and can take a while to wake up.
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 15 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
