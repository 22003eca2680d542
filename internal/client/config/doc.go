// Package config loads runtime configuration for the JobTracker CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. JOBTRACKER_* environment variables, optionally read from a .env file
//     in the working directory (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via -c/-config or
//     $JOBTRACKER_CONFIG.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL (default https://jobtracker-backend-dwwh.onrender.com/api)
//	-d string   local database file (default jobtracker.db)
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000/api",
//	  "database_path": "/var/lib/jobtracker/client.db",
//	  "request_timeout": "30s",
//	  "online_check_interval": "15s",
//	  "log_level": "debug"
//	}
package config
