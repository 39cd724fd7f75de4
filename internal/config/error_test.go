package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name    string
		err     ConfigError
		wantMsg string
	}{
		{"empty", ConfigError{}, ""},
		{
			"single missing",
			ConfigError{Path: "ytarchive.toml", Missing: []string{"HETZNER_SECRET_KEY: set the secret"}},
			"ytarchive.toml: unset environment variable HETZNER_SECRET_KEY: set the secret",
		},
		{
			"no path",
			ConfigError{Errors: []string{"log.level: bad"}},
			"config: log.level: bad",
		},
		{
			"several",
			ConfigError{
				Path:    "/etc/ytarchive/ytarchive.toml",
				Missing: []string{"HETZNER_ACCESS_KEY"},
				Errors:  []string{"log.level: bad", "pipeline.max_upload_retries: bad"},
			},
			"/etc/ytarchive/ytarchive.toml: 3 problems: unset environment variable HETZNER_ACCESS_KEY; log.level: bad; pipeline.max_upload_retries: bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantMsg != "", tt.err.HasErrors())
			assert.Len(t, tt.err.Problems(), len(tt.err.Missing)+len(tt.err.Errors))
		})
	}
}
