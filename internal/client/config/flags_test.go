package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090/v1", "-k", "key", "-d", "/tmp/x.db", "-i", "10", "-w", "150", "-n", "25", "-v"},
			want: func(c *Config) {
				c.APIBaseURL = "http://127.0.0.1:9090/v1"
				c.APIKey = "key"
				c.DatabasePath = "/tmp/x.db"
				c.OnlineCheckInterval = 10 * time.Second
				c.DebounceDelay = 150 * time.Millisecond
				c.GalleryLimit = 25
				c.Verbose = true
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "cfg.json", "-env", "x.env", "-w", "0"},
			want: func(c *Config) { c.DebounceDelay = 0 },
		},
		{name: "incorrect check interval", args: []string{"-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(&want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}
