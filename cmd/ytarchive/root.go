package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/ytarchive/internal/config"
)

var version = "dev"

var (
	configPath string
	envFile    string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "ytarchive",
	Short: "Archive playlists into S3-compatible object storage",
	Long: `ytarchive - archive a playlist into object storage

Downloads every item of a playlist with yt-dlp, sanitizes the file names
into URL-safe keys and uploads them to an S3-compatible bucket.

Credentials are read from the config file or from
HETZNER_OBJECT_STORAGE_URL, HETZNER_ACCESS_KEY and HETZNER_SECRET_KEY.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return exitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env.local", "Env file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("ytarchive {{.Version}}\n")
}

// loadConfig loads the env file, then the explicit or discovered config.
// Without any config file the defaults are used.
func loadConfig() (*config.Config, string, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, "", err
	}

	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newLogger builds the stderr text logger. The --log-level flag wins over
// the config file and --quiet raises the level to at least warn.
func newLogger(w io.Writer, cfgLevel string) (*slog.Logger, error) {
	level := cfgLevel
	if logLevel != "" {
		level = logLevel
	}

	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
	}
	if quiet && lvl < slog.LevelWarn {
		lvl = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
