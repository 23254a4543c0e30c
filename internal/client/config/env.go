package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with values from the environment. A .env file in
// the working directory is loaded first, without overriding variables the
// shell already set. Unparseable values are ignored in favor of the value
// already in cfg.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SKYTRACK_GATEWAY_URL"); v != "" {
		cfg.GatewayBaseURL = v
	}
	if v := os.Getenv("SKYTRACK_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("SKYTRACK_STORE_DSN"); v != "" {
		cfg.StoreDSN = v
	}
	if v := os.Getenv("SKYTRACK_LOGIN_ATTEMPTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LoginAttemptsPerMinute = n
		}
	}
}
