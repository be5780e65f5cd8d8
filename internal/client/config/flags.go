package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/catvote/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the
// flags handled here are parsed; the rest of args is left to other layers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-d", "-i", "-w", "-n", "-v"})

	fs := flag.NewFlagSet("catvote", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the vote service")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	debounceDelay := fs.Int("w", int(cfg.DebounceDelay.Milliseconds()), "vote debounce delay (in milliseconds)")
	fs.IntVar(&cfg.GalleryLimit, "n", cfg.GalleryLimit, "gallery size")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.DebounceDelay = time.Duration(*debounceDelay) * time.Millisecond
	return nil
}
