package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/catvote/internal/flagx"
	"github.com/dmitrijs2005/catvote/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After
// parsing, set values are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_url"`
	APIKey              string         `json:"api_key"`
	DatabasePath        string         `json:"database_path"`
	DebounceDelay       timex.Duration `json:"debounce_delay"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	GalleryLimit        int            `json:"gallery_limit"`
	Verbose             bool           `json:"verbose"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.APIKey != "" {
		cfg.APIKey = jc.APIKey
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DebounceDelay.Duration != 0 {
		cfg.DebounceDelay = jc.DebounceDelay.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.GalleryLimit != 0 {
		cfg.GalleryLimit = jc.GalleryLimit
	}
	if jc.Verbose {
		cfg.Verbose = true
	}
	return nil
}
