package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/skytrack-dev/skytrack/internal/flagx"
	"github.com/skytrack-dev/skytrack/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds. Zero-valued fields are ignored so a
// partial file only overrides what it names.
type JsonConfig struct {
	GatewayBaseURL         string         `json:"gateway_base_url"`
	HTTPTimeout            timex.Duration `json:"http_timeout"`
	StoreDSN               string         `json:"store_dsn"`
	LoginAttemptsPerMinute *int           `json:"login_attempts_per_minute"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. No flag, no file, nothing happens. Read or unmarshal
// errors panic; the entry point treats a broken explicit config as fatal.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	if jc.GatewayBaseURL != "" {
		cfg.GatewayBaseURL = jc.GatewayBaseURL
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
	if jc.StoreDSN != "" {
		cfg.StoreDSN = jc.StoreDSN
	}
	if jc.LoginAttemptsPerMinute != nil {
		cfg.LoginAttemptsPerMinute = *jc.LoginAttemptsPerMinute
	}
}
