// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/vmunix/ytarchive/internal/fetcher"
)

// Environment variables the object store credentials fall back to.
const (
	EnvEndpoint  = "HETZNER_OBJECT_STORAGE_URL"
	EnvAccessKey = "HETZNER_ACCESS_KEY"
	EnvSecretKey = "HETZNER_SECRET_KEY"
)

// ErrMissingCredentials is returned when the object store endpoint or keys
// are set neither in the config file nor in the environment.
var ErrMissingCredentials = errors.New("missing object storage credentials")

// Config is the root configuration structure.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Fetcher  FetcherConfig  `toml:"fetcher"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Log      LogConfig      `toml:"log"`
}

type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
}

type FetcherConfig struct {
	Executable         string `toml:"executable"`
	Format             string `toml:"format"`
	MergeOutputFormat  string `toml:"merge_output_format"`
	Cookies            string `toml:"cookies"`
	CookiesFromBrowser string `toml:"cookies_from_browser"`
	AutoInstall        bool   `toml:"auto_install"`
}

type PipelineConfig struct {
	StagingDir       string        `toml:"staging_dir"`
	KeepLocal        bool          `toml:"keep_local"`
	MaxUploadRetries int           `toml:"max_upload_retries"`
	DownloadBackoff  time.Duration `toml:"download_backoff"`
	UploadBackoff    time.Duration `toml:"upload_backoff"`
	MinFreeSpace     string        `toml:"min_free_space"`
	DisableResume    bool          `toml:"disable_resume"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, substitutes, parses and validates the configuration file.
// Problems are reported as *ConfigError.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping Validate.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Fetcher.Format == "" {
		c.Fetcher.Format = fetcher.DefaultFormat
	}
	if c.Fetcher.MergeOutputFormat == "" {
		c.Fetcher.MergeOutputFormat = fetcher.DefaultMergeOutputFormat
	}
	if c.Pipeline.MaxUploadRetries == 0 {
		c.Pipeline.MaxUploadRetries = 3
	}
	if c.Pipeline.DownloadBackoff == 0 {
		c.Pipeline.DownloadBackoff = 2 * time.Second
	}
	if c.Pipeline.UploadBackoff == 0 {
		c.Pipeline.UploadBackoff = 2 * time.Second
	}
	if c.Pipeline.MinFreeSpace == "" {
		c.Pipeline.MinFreeSpace = "1 GB"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// MinFreeBytes parses Pipeline.MinFreeSpace. "0" disables the check.
func (c *Config) MinFreeBytes() (uint64, error) {
	if strings.TrimSpace(c.Pipeline.MinFreeSpace) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.Pipeline.MinFreeSpace)
	if err != nil {
		return 0, fmt.Errorf("pipeline.min_free_space: %w", err)
	}
	return n, nil
}

// Credentials returns the storage settings with empty fields filled from
// the HETZNER_* environment variables. It fails with ErrMissingCredentials
// naming every variable still unset.
func (c *Config) Credentials() (StorageConfig, error) {
	s := c.Storage
	var missing []string

	fill := func(field *string, env string) {
		if *field == "" {
			*field = os.Getenv(env)
		}
		if *field == "" {
			missing = append(missing, env)
		}
	}
	fill(&s.Endpoint, EnvEndpoint)
	fill(&s.AccessKey, EnvAccessKey)
	fill(&s.SecretKey, EnvSecretKey)

	if len(missing) > 0 {
		return s, fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return s, nil
}
