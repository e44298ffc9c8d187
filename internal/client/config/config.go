package config

import "time"

// Config holds runtime settings for the homelights CLI.
//
// Fields:
//   - BaseURL: root URL of the home-automation backend.
//   - DBPath: SQLite file holding the persisted credential.
//   - DebounceInterval: quiet period before a light change is sent.
//   - LogLevel: DEBUG, INFO, WARN or ERROR.
//   - LogBackend: "slog" (text) or "zap" (JSON).
//   - HTTPCache: enables the in-memory HTTP cache for reads.
type Config struct {
	BaseURL          string        `env:"HOMELIGHTS_BASE_URL"`
	DBPath           string        `env:"HOMELIGHTS_DB_PATH"`
	DebounceInterval time.Duration `env:"HOMELIGHTS_DEBOUNCE"`
	LogLevel         string        `env:"HOMELIGHTS_LOG_LEVEL"`
	LogBackend       string        `env:"HOMELIGHTS_LOG_BACKEND"`
	HTTPCache        bool          `env:"HOMELIGHTS_HTTP_CACHE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3001"
	c.DBPath = "homelights.db"
	c.DebounceInterval = 300 * time.Millisecond
	c.LogLevel = "INFO"
	c.LogBackend = "slog"
	c.HTTPCache = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
