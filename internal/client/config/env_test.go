package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_parseEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "# local overrides\nCATVOTE_API_URL=http://localhost:8080/v1\nCATVOTE_API_KEY=\"quoted key\"\n")

	t.Run("dotenv file", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseEnv(&cfg, []string{"-env", envFile}))

		assert.Equal(t, "http://localhost:8080/v1", cfg.APIBaseURL)
		assert.Equal(t, "quoted key", cfg.APIKey)
		assert.Equal(t, "catvote.db", cfg.DatabasePath)
	})

	t.Run("process environment wins", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "from-env")

		cfg := defaults()
		require.NoError(t, parseEnv(&cfg, []string{"-env", envFile}))

		assert.Equal(t, "from-env", cfg.APIKey)
		assert.Equal(t, "http://localhost:8080/v1", cfg.APIBaseURL)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseEnv(&cfg, []string{"-env", filepath.Join(dir, "nope.env")}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("empty url keeps the default", func(t *testing.T) {
		t.Setenv(EnvAPIURL, "")

		cfg := defaults()
		require.NoError(t, parseEnv(&cfg, []string{"-env", filepath.Join(dir, "nope.env")}))
		assert.Equal(t, "https://api.thecatapi.com/v1", cfg.APIBaseURL)
	})
}
