package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/catvote/internal/flagx"
)

const (
	EnvAPIURL   = "CATVOTE_API_URL"
	EnvAPIKey   = "CATVOTE_API_KEY"
	EnvDatabase = "CATVOTE_DB"
)

// parseEnv overlays cfg with the dotenv file and the process environment.
// A missing dotenv file is not an error.
func parseEnv(cfg *Config, args []string) error {
	path := flagx.EnvFileFlag(args)

	fileValues, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file %s: %w", path, err)
		}
		fileValues = map[string]string{}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}

	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvAPIKey); ok {
		cfg.APIKey = v
	}
	if v, ok := lookup(EnvDatabase); ok && v != "" {
		cfg.DatabasePath = v
	}
	return nil
}
