package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ytarchive.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.Pipeline.MaxUploadRetries)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.DownloadBackoff)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.UploadBackoff)
	assert.Equal(t, "1 GB", cfg.Pipeline.MinFreeSpace)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mp4", cfg.Fetcher.MergeOutputFormat)
	assert.NotEmpty(t, cfg.Fetcher.Format)
	assert.Empty(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("YTA_TEST_SECRET", "s3cr3t")

	path := writeConfig(t, `
[storage]
endpoint = "https://fsn1.your-objectstorage.com"
access_key = "AKIA"
secret_key = "${YTA_TEST_SECRET}"
region = "fsn1"

[fetcher]
cookies_from_browser = "brave:Default"
auto_install = true

[pipeline]
staging_dir = "/tmp/stage"
keep_local = true
max_upload_retries = 5
download_backoff = "500ms"
upload_backoff = "10s"
min_free_space = "5 GiB"
disable_resume = true

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://fsn1.your-objectstorage.com", cfg.Storage.Endpoint)
	assert.Equal(t, "s3cr3t", cfg.Storage.SecretKey)
	assert.Equal(t, "fsn1", cfg.Storage.Region)
	assert.Equal(t, "brave:Default", cfg.Fetcher.CookiesFromBrowser)
	assert.True(t, cfg.Fetcher.AutoInstall)
	assert.Equal(t, "/tmp/stage", cfg.Pipeline.StagingDir)
	assert.True(t, cfg.Pipeline.KeepLocal)
	assert.Equal(t, 5, cfg.Pipeline.MaxUploadRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.DownloadBackoff)
	assert.Equal(t, 10*time.Second, cfg.Pipeline.UploadBackoff)
	assert.True(t, cfg.Pipeline.DisableResume)
	assert.Equal(t, "debug", cfg.Log.Level)

	n, err := cfg.MinFreeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(5*1024*1024*1024), n)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[log]\nlevel = \"warn\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Pipeline.MaxUploadRetries)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.DownloadBackoff)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, "[storage]\nsecret_key = \"${YTA_TEST_DEFINITELY_UNSET:?export it}\"\n")

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"YTA_TEST_DEFINITELY_UNSET: export it"}, cfgErr.Missing)
	assert.Equal(t, path, cfgErr.Path)
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := writeConfig(t, `
[pipeline]
max_upload_retries = -1
min_free_space = "lots"

[log]
level = "verbose"
`)

	_, err := Load(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Errors, 3)

	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "verbose", cfg.Log.Level)
}

func TestLoad_BadTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[storage\nendpoint = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMinFreeBytes_Zero(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.MinFreeSpace = "0"

	n, err := cfg.MinFreeBytes()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCredentials(t *testing.T) {
	t.Run("from config", func(t *testing.T) {
		t.Setenv(EnvEndpoint, "")
		t.Setenv(EnvAccessKey, "")
		t.Setenv(EnvSecretKey, "")

		cfg := Default()
		cfg.Storage = StorageConfig{Endpoint: "https://s3.example.com", AccessKey: "a", SecretKey: "s", Region: "eu"}

		s, err := cfg.Credentials()
		require.NoError(t, err)
		assert.Equal(t, cfg.Storage, s)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(EnvEndpoint, "https://env.example.com")
		t.Setenv(EnvAccessKey, "env-access")
		t.Setenv(EnvSecretKey, "env-secret")

		cfg := Default()
		cfg.Storage.AccessKey = "file-access"

		s, err := cfg.Credentials()
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", s.Endpoint)
		assert.Equal(t, "file-access", s.AccessKey)
		assert.Equal(t, "env-secret", s.SecretKey)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv(EnvEndpoint, "https://env.example.com")
		t.Setenv(EnvAccessKey, "")
		t.Setenv(EnvSecretKey, "")

		_, err := Default().Credentials()
		require.ErrorIs(t, err, ErrMissingCredentials)
		assert.Contains(t, err.Error(), EnvAccessKey)
		assert.Contains(t, err.Error(), EnvSecretKey)
		assert.NotContains(t, err.Error(), EnvEndpoint)
	})
}
