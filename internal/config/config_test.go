package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Webhook.URL)
	assert.Equal(t, 10*time.Second, cfg.Webhook.RequestTimeout())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "failed_events.db", cfg.Database.DSN)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.RetryDelay())
	assert.Equal(t, 5, cfg.Match.Minutes)
	assert.Equal(t, 2, cfg.Match.HomeTeamID)
	assert.Equal(t, 1, cfg.Match.AwayTeamID)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
webhook:
  url: https://example.com/hook
  timeout: 3s
database:
  driver: postgres
  dsn: postgres://localhost/matchfeed
retry:
  max_retries: 5
  delay: 250ms
match:
  minutes: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/hook", cfg.Webhook.URL)
	assert.Equal(t, 3*time.Second, cfg.Webhook.RequestTimeout())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.RetryDelay())
	assert.Equal(t, 10, cfg.Match.Minutes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("webhook:\n  url: https://from-file\n"), 0o644))

	t.Setenv("MATCHFEED_WEBHOOK__URL", "https://from-env")
	t.Setenv("MATCHFEED_RETRY__MAX_RETRIES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env", cfg.Webhook.URL)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("MATCHFEED_MATCH__MINUTES", "0")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match.minutes")
}

func TestDurationFallbacks(t *testing.T) {
	w := WebhookConfig{Timeout: "not-a-duration"}
	assert.Equal(t, 10*time.Second, w.RequestTimeout())

	r := RetryConfig{Delay: ""}
	assert.Equal(t, time.Second, r.RetryDelay())

	r = RetryConfig{Delay: "0s"}
	assert.Equal(t, time.Duration(0), r.RetryDelay())
}
