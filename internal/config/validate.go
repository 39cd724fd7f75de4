package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validMergeFormats = map[string]bool{
	"mp4": true, "mkv": true, "webm": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Storage.Endpoint != "" {
		endpoint := c.Storage.Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		if u, err := url.Parse(endpoint); err != nil || u.Host == "" {
			errs = append(errs, fmt.Sprintf("storage.endpoint: invalid url %q", c.Storage.Endpoint))
		}
	}

	if !validMergeFormats[c.Fetcher.MergeOutputFormat] {
		errs = append(errs, fmt.Sprintf("fetcher.merge_output_format: must be one of mp4, mkv, webm; got %q", c.Fetcher.MergeOutputFormat))
	}

	if c.Pipeline.MaxUploadRetries < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.max_upload_retries: must be at least 1, got %d", c.Pipeline.MaxUploadRetries))
	}
	if c.Pipeline.DownloadBackoff < 0 {
		errs = append(errs, "pipeline.download_backoff: must not be negative")
	}
	if c.Pipeline.UploadBackoff < 0 {
		errs = append(errs, "pipeline.upload_backoff: must not be negative")
	}
	if c.Pipeline.MinFreeSpace != "" {
		if _, err := humanize.ParseBytes(c.Pipeline.MinFreeSpace); err != nil {
			errs = append(errs, fmt.Sprintf("pipeline.min_free_space: cannot parse %q", c.Pipeline.MinFreeSpace))
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}
