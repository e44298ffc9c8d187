package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/homelights/internal/flagx"
	"github.com/dmitrijs2005/homelights/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key from a zero value, so a partial file only overrides what
// it names.
type JsonConfig struct {
	BaseURL          *string         `json:"base_url"`
	DBPath           *string         `json:"db_path"`
	DebounceInterval *timex.Duration `json:"debounce_interval"`
	LogLevel         *string         `json:"log_level"`
	LogBackend       *string         `json:"log_backend"`
	HTTPCache        *bool           `json:"http_cache"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
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

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.DebounceInterval != nil {
		cfg.DebounceInterval = jc.DebounceInterval.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
	if jc.HTTPCache != nil {
		cfg.HTTPCache = *jc.HTTPCache
	}
}
