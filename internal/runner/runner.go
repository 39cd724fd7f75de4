// Package runner runs one archive pipeline next to a progress reporter.
package runner

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/vmunix/ytarchive/internal/archive"
	"github.com/vmunix/ytarchive/internal/events"
	"github.com/vmunix/ytarchive/internal/fetcher"
	"github.com/vmunix/ytarchive/internal/objstore"
	"golang.org/x/sync/errgroup"
)

// Config for a run.
type Config struct {
	Options archive.Options

	// Progress receives human-readable progress lines; nil means stdout.
	Progress io.Writer
	Quiet    bool
}

// Runner wires the event bus between the pipeline and the reporter.
type Runner struct {
	config  Config
	fetcher fetcher.Fetcher
	store   objstore.Client
	logger  *slog.Logger
}

// New creates a runner.
func New(cfg Config, f fetcher.Fetcher, store objstore.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Progress == nil {
		cfg.Progress = os.Stdout
	}
	return &Runner{
		config:  cfg,
		fetcher: f,
		store:   store,
		logger:  logger,
	}
}

// Run executes the pipeline and blocks until it and the reporter finish.
// The returned error is the pipeline's; the reporter cannot fail a run.
func (r *Runner) Run(ctx context.Context) (*archive.Result, error) {
	bus := events.NewBus(nil, r.logger.With("component", "bus"))
	progress := NewProgress(r.config.Progress, r.config.Quiet)
	updates := bus.SubscribeAll(256)

	var result *archive.Result
	var g errgroup.Group

	g.Go(func() error {
		defer func() { _ = bus.Close() }()
		var err error
		result, err = archive.New(r.config.Options, r.fetcher, r.store, bus, r.logger).Run(ctx)
		return err
	})

	g.Go(func() error {
		progress.Consume(updates)
		return nil
	})

	err := g.Wait()
	return result, err
}
