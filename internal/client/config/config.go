// Package config assembles runtime settings for the SkyTrack client.
//
// Sources are applied in order, later ones overriding earlier ones:
// defaults, JSON file (-c/-config), environment (including a .env file),
// command-line flags.
package config

import "time"

// Config holds runtime settings for the SkyTrack client.
type Config struct {
	// GatewayBaseURL is the base URL of the auth/REST gateway,
	// e.g. "http://localhost:3001/api".
	GatewayBaseURL string

	// HTTPTimeout bounds every gateway round trip.
	HTTPTimeout time.Duration

	// StoreDSN is the path of the local storage database file.
	StoreDSN string

	// LoginAttemptsPerMinute throttles login calls locally; 0 disables it.
	LoginAttemptsPerMinute int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayBaseURL = "http://localhost:3001/api"
	c.HTTPTimeout = 10 * time.Second
	c.StoreDSN = "skytrack.db"
	c.LoginAttemptsPerMinute = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
