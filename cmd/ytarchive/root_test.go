package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/ytarchive/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfgLevel string
		flag     string
		quiet    bool
		want     slog.Level
	}{
		{"default", "", "", false, slog.LevelInfo},
		{"from config", "debug", "", false, slog.LevelDebug},
		{"flag wins", "debug", "error", false, slog.LevelError},
		{"quiet raises", "info", "", true, slog.LevelWarn},
		{"quiet keeps error", "error", "", true, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			logLevel = tt.flag
			quiet = tt.quiet

			logger, err := newLogger(&bytes.Buffer{}, tt.cfgLevel)
			require.NoError(t, err)

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.want))
			assert.False(t, logger.Enabled(ctx, tt.want-1))
		})
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	resetGlobals(t)
	logLevel = "loud"

	_, err := newLogger(&bytes.Buffer{}, "")
	assert.Error(t, err)
}

func TestLoadConfig_Explicit(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()

	envFile = filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(envFile, []byte("YTA_ROOT_TEST_LEVEL=debug\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("YTA_ROOT_TEST_LEVEL") })

	configPath = filepath.Join(dir, "ytarchive.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[log]\nlevel = \"${YTA_ROOT_TEST_LEVEL}\"\n"), 0644))

	cfg, path, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_NoneFound(t *testing.T) {
	if _, err := os.Stat("/etc/ytarchive/ytarchive.toml"); err == nil {
		t.Skip("system config present")
	}
	resetGlobals(t)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("YTARCHIVE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	configPath = ""
	envFile = ""

	cfg, path, err := loadConfig()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, config.Default(), cfg)
}
