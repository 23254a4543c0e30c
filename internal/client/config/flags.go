package config

import (
	"flag"
	"os"
	"time"

	"github.com/skytrack-dev/skytrack/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-g string   base URL of the gateway (default from Config)
//	-d string   path of the local storage database (default from Config)
//	-t int      gateway HTTP timeout in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-g", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GatewayBaseURL, "g", cfg.GatewayBaseURL, "base URL of the gateway")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "path of the local storage database")
	timeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "gateway HTTP timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*timeout) * time.Second
}
