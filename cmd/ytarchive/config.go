package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vmunix/ytarchive/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates ytarchive.toml syntax, field values and environment variable substitution without running anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")

	creds, err := cfg.Credentials()
	if err != nil {
		fmt.Fprintf(w, "  Storage:    %v\n", err)
	} else {
		fmt.Fprintf(w, "  Storage:    %s (access key %s)\n", creds.Endpoint, mask(creds.AccessKey))
	}

	executable := cfg.Fetcher.Executable
	if executable == "" {
		executable = "yt-dlp (PATH)"
	}
	fmt.Fprintf(w, "  Fetcher:    %s, merge into %s\n", executable, cfg.Fetcher.MergeOutputFormat)
	if cfg.Fetcher.Cookies != "" || cfg.Fetcher.CookiesFromBrowser != "" {
		fmt.Fprintln(w, "  Cookies:    configured")
	}

	staging := cfg.Pipeline.StagingDir
	if staging == "" {
		staging = "temporary"
	}
	fmt.Fprintf(w, "  Staging:    %s (keep: %t, resume: %t)\n", staging, cfg.Pipeline.KeepLocal, !cfg.Pipeline.DisableResume)
	fmt.Fprintf(w, "  Retries:    %d uploads, backoff %s / %s\n",
		cfg.Pipeline.MaxUploadRetries, cfg.Pipeline.DownloadBackoff, cfg.Pipeline.UploadBackoff)
	if n, err := cfg.MinFreeBytes(); err == nil && n > 0 {
		fmt.Fprintf(w, "  Min free:   %s\n", humanize.Bytes(n))
	}
	fmt.Fprintf(w, "  Log level:  %s\n", cfg.Log.Level)
}

// mask shows only the first four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
