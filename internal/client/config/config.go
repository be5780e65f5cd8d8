package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the catvote CLI.
type Config struct {
	APIBaseURL          string
	APIKey              string
	DatabasePath        string
	DebounceDelay       time.Duration
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	GalleryLimit        int
	Verbose             bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.thecatapi.com/v1"
	c.APIKey = ""
	c.DatabasePath = "catvote.db"
	c.DebounceDelay = 300 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.GalleryLimit = 10
	c.Verbose = false
}

func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return fmt.Errorf("%w: api url is empty", ErrInvalidConfig)
	case c.DatabasePath == "":
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	case c.DebounceDelay < 0:
		return fmt.Errorf("%w: negative debounce delay %s", ErrInvalidConfig, c.DebounceDelay)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	case c.OnlineCheckInterval <= 0:
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	case c.GalleryLimit <= 0:
		return fmt.Errorf("%w: gallery size must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig applies defaults, then overlays the dotenv file, the process
// environment, the JSON file and finally the flags found in args (the
// command line without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
