// Package config loads runtime configuration for the homelights CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. HOMELIGHTS_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   local database path
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "300ms" or
// integer nanoseconds. Every key is optional:
//
//	{
//	  "base_url": "http://localhost:3001",
//	  "db_path": "homelights.db",
//	  "debounce_interval": "300ms",
//	  "log_level": "INFO",
//	  "log_backend": "slog",
//	  "http_cache": true
//	}
//
// # Environment
//
//	HOMELIGHTS_BASE_URL, HOMELIGHTS_DB_PATH, HOMELIGHTS_DEBOUNCE,
//	HOMELIGHTS_LOG_LEVEL, HOMELIGHTS_LOG_BACKEND, HOMELIGHTS_HTTP_CACHE
package config
