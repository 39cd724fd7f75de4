package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vmunix/ytarchive/internal/archive"
	"github.com/vmunix/ytarchive/internal/config"
	"github.com/vmunix/ytarchive/internal/fetcher"
	"github.com/vmunix/ytarchive/internal/objstore"
	"github.com/vmunix/ytarchive/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run <storage-path> <playlist-url>",
	Short: "Download a playlist and upload it to object storage",
	Long: `Downloads every item of the playlist into a staging directory and
uploads the files below <storage-path> (s3://bucket/prefix or bucket/prefix).

Downloads are retried until they succeed; uploads are retried up to
--max-upload-retries times. When anything fails the staging directory is
kept and a rerun with --tmp-dir pointing at it resumes where it stopped.`,
	Example: `  ytarchive run s3://media/lectures "https://www.youtube.com/playlist?list=PL..."
  ytarchive run media/lectures "https://..." --tmp-dir ./stage --keep-local`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("tmp-dir", "", "Staging directory (default: new temporary directory)")
	cmd.Flags().Bool("keep-local", false, "Keep the staging directory after a successful run")
	cmd.Flags().String("cookies", "", "Netscape cookie file passed to yt-dlp")
	cmd.Flags().String("cookies-from-browser", "", "Browser to load cookies from, e.g. brave:Default")
	cmd.Flags().Int("max-upload-retries", archive.DefaultMaxUploadRetries, "Upload attempts per file")
	cmd.Flags().Bool("no-resume", false, "Ignore the journal of a previous run in --tmp-dir")
	cmd.Flags().Bool("install", false, "Download yt-dlp when it is not installed")
}

// applyRunFlags overrides config values with the flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("tmp-dir") {
		cfg.Pipeline.StagingDir, _ = flags.GetString("tmp-dir")
	}
	if flags.Changed("keep-local") {
		cfg.Pipeline.KeepLocal, _ = flags.GetBool("keep-local")
	}
	if flags.Changed("cookies") {
		cfg.Fetcher.Cookies, _ = flags.GetString("cookies")
	}
	if flags.Changed("cookies-from-browser") {
		cfg.Fetcher.CookiesFromBrowser, _ = flags.GetString("cookies-from-browser")
	}
	if flags.Changed("max-upload-retries") {
		cfg.Pipeline.MaxUploadRetries, _ = flags.GetInt("max-upload-retries")
	}
	if flags.Changed("no-resume") {
		cfg.Pipeline.DisableResume, _ = flags.GetBool("no-resume")
	}
	if flags.Changed("install") {
		cfg.Fetcher.AutoInstall, _ = flags.GetBool("install")
	}
}

// runOptions turns the positional arguments and config into pipeline options.
func runOptions(cfg *config.Config, storagePath, playlistURL string) (archive.Options, error) {
	bucket, prefix, err := objstore.ParsePath(storagePath)
	if err != nil {
		return archive.Options{}, err
	}
	if cfg.Pipeline.MaxUploadRetries < 1 {
		return archive.Options{}, fmt.Errorf("max upload retries must be at least 1, got %d", cfg.Pipeline.MaxUploadRetries)
	}
	minFree, err := cfg.MinFreeBytes()
	if err != nil {
		return archive.Options{}, err
	}

	return archive.Options{
		PlaylistURL:      playlistURL,
		Bucket:           bucket,
		Prefix:           prefix,
		StagingDir:       cfg.Pipeline.StagingDir,
		KeepLocal:        cfg.Pipeline.KeepLocal,
		MaxUploadRetries: cfg.Pipeline.MaxUploadRetries,
		DownloadBackoff:  cfg.Pipeline.DownloadBackoff,
		UploadBackoff:    cfg.Pipeline.UploadBackoff,
		MinFreeBytes:     minFree,
		Auth: fetcher.Auth{
			Cookies:            cfg.Fetcher.Cookies,
			CookiesFromBrowser: cfg.Fetcher.CookiesFromBrowser,
		},
		Resume: !cfg.Pipeline.DisableResume,
	}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	creds, err := cfg.Credentials()
	if err != nil {
		return err
	}

	opts, err := runOptions(cfg, args[0], args[1])
	if err != nil {
		return err
	}

	store, err := objstore.NewMinioClient(objstore.MinioConfig{
		Endpoint:  creds.Endpoint,
		AccessKey: creds.AccessKey,
		SecretKey: creds.SecretKey,
		Region:    creds.Region,
	})
	if err != nil {
		return err
	}

	if cfg.Fetcher.AutoInstall {
		logger.Info("ensuring yt-dlp is installed")
		if err := fetcher.Install(ctx); err != nil {
			return err
		}
	}
	f := fetcher.NewYTDLP(fetcher.YTDLPConfig{
		Executable:        cfg.Fetcher.Executable,
		Format:            cfg.Fetcher.Format,
		MergeOutputFormat: cfg.Fetcher.MergeOutputFormat,
		Quiet:             quiet,
	}, logger.With("component", "fetcher"))

	r := runner.New(runner.Config{
		Options:  opts,
		Progress: cmd.OutOrStdout(),
		Quiet:    quiet,
	}, f, store, logger)

	_, err = r.Run(ctx)
	return err
}
