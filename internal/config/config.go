package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application.
type Config struct {
	Webhook  WebhookConfig  `koanf:"webhook"`
	Database DatabaseConfig `koanf:"database"`
	Retry    RetryConfig    `koanf:"retry"`
	Match    MatchConfig    `koanf:"match"`
}

// WebhookConfig holds the delivery endpoint settings.
type WebhookConfig struct {
	URL     string `koanf:"url"`
	Timeout string `koanf:"timeout"` // parsed as time.Duration
}

// RequestTimeout returns the per-request timeout, falling back to 10s when
// the configured value does not parse.
func (c WebhookConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// DatabaseConfig holds the failure store settings.
type DatabaseConfig struct {
	Driver string `koanf:"driver"` // "sqlite" or "postgres"
	DSN    string `koanf:"dsn"`
}

// RetryConfig holds the sweep settings.
type RetryConfig struct {
	MaxRetries int    `koanf:"max_retries"`
	Delay      string `koanf:"delay"` // pause between attempts, parsed as time.Duration
}

// RetryDelay returns the inter-attempt pause, falling back to 1s when the
// configured value does not parse.
func (c RetryConfig) RetryDelay() time.Duration {
	d, err := time.ParseDuration(c.Delay)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// MatchConfig holds the simulation settings.
type MatchConfig struct {
	Minutes    int    `koanf:"minutes"`
	HomeRoster string `koanf:"home_roster"`
	AwayRoster string `koanf:"away_roster"`
	HomeTeamID int    `koanf:"home_team_id"`
	AwayTeamID int    `koanf:"away_team_id"`
	HomeName   string `koanf:"home_name"`
	AwayName   string `koanf:"away_name"`
}

// Load loads the configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence (later wins).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"webhook.url":        "",
		"webhook.timeout":    "10s",
		"database.driver":    "sqlite",
		"database.dsn":       "failed_events.db",
		"retry.max_retries":  3,
		"retry.delay":        "1s",
		"match.minutes":      5,
		"match.home_roster":  "data/alhilal.csv",
		"match.away_roster":  "data/alnassr.csv",
		"match.home_team_id": 2,
		"match.away_team_id": 1,
		"match.home_name":    "Al Hilal",
		"match.away_name":    "Al Nassr",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// MATCHFEED_WEBHOOK__URL=http://... overrides webhook.url
	if err := k.Load(env.Provider("MATCHFEED_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "MATCHFEED_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("retry.max_retries must not be negative")
	}
	if cfg.Match.Minutes <= 0 {
		return nil, fmt.Errorf("match.minutes must be positive")
	}

	return &cfg, nil
}
