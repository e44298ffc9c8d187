package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:3001", c.BaseURL)
	assert.Equal(t, "homelights.db", c.DBPath)
	assert.Equal(t, 300*time.Millisecond, c.DebounceInterval)
	assert.Equal(t, "INFO", c.LogLevel)
	assert.Equal(t, "slog", c.LogBackend)
	assert.True(t, c.HTTPCache)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"base_url":          "http://json:1",
		"db_path":           "json.db",
		"debounce_interval": "1s",
		"log_backend":       "zap",
	})
	t.Setenv("HOMELIGHTS_BASE_URL", "http://env:2")
	t.Setenv("HOMELIGHTS_DEBOUNCE", "500ms")
	os.Args = []string{"testbin", "-c", path, "-d", filepath.Join("flags", "x.db")}

	cfg := LoadConfig()

	want := defaults()
	want.BaseURL = "http://env:2"
	want.DBPath = filepath.Join("flags", "x.db")
	want.DebounceInterval = 500 * time.Millisecond
	want.LogBackend = "zap"
	assert.Empty(t, cmp.Diff(want, cfg))
}
