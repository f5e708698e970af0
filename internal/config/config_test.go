package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/rdstream/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultRealDebridURL, cfg.RealDebridBaseURL)
	assert.Equal(t, constants.DefaultSearchURL, cfg.SearchURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, constants.DefaultMaxPollAttempts, cfg.MaxPollAttempts)
	assert.False(t, cfg.DemoFallback)
	assert.False(t, cfg.SearchLegacyFieldLayout)
	assert.Empty(t, cfg.RealDebridToken)
}

func TestLoadFromYAML(t *testing.T) {
	withConfigFile(t, `
realdebrid_api_token: "  filetoken  "
search_url: https://search.example/api
poll_interval: 2s
max_poll_attempts: 10
search_cache_ttl: 1m
demo_fallback: true
search_legacy_field_layout: true
port: "8080"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "filetoken", cfg.RealDebridToken)
	assert.Equal(t, "https://search.example/api", cfg.SearchURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.MaxPollAttempts)
	assert.Equal(t, time.Minute, cfg.SearchCacheTTL)
	assert.True(t, cfg.DemoFallback)
	assert.True(t, cfg.SearchLegacyFieldLayout)
	assert.Equal(t, "8080", cfg.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	withConfigFile(t, "realdebrid_api_token: filetoken\npoll_interval: 2s\n")
	t.Setenv("REALDEBRID_API_TOKEN", "envtoken")
	t.Setenv("POLL_INTERVAL", "750ms")
	t.Setenv("DEMO_FALLBACK", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "envtoken", cfg.RealDebridToken)
	assert.Equal(t, 750*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.DemoFallback)
}

func TestInvalidEnvValue(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MAX_POLL_ATTEMPTS", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_POLL_ATTEMPTS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.MaxPollAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PollInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.SearchURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "chatty"
	assert.Error(t, cfg.Validate())
}

func TestMalformedYAML(t *testing.T) {
	withConfigFile(t, "poll_interval: [oops\n")

	_, err := Load()
	assert.ErrorContains(t, err, "failed to load config file")
}
