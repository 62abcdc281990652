package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"principia/internal/driver"
	"principia/internal/logging"
)

// debounceWindow coalesces bursts of write events from editors that save
// in multiple steps.
const debounceWindow = 200 * time.Millisecond

// watchCmd re-checks the given files whenever any of them (or anything in
// their directories) changes. Every pass starts from a fresh run state,
// so edits never see stale schemas.
var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Re-check files on every change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, args)
	},
}

func watch(ctx context.Context, files []string) error {
	log := logging.L(logging.CategoryWatch)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		log.Debug("watching", zap.String("dir", dir))
	}

	runAll := func() {
		report := driver.NewReporter(os.Stdout, cfg.Reporting.Color)
		runner := driver.NewRunner(driver.NewState(), report,
			logging.L(logging.CategoryDriver), cfg.IncludePaths)
		for _, path := range files {
			if err := runner.CheckFile(path); err != nil {
				report.CommandError(err)
			}
		}
	}
	runAll()

	pending := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)

	// Event loop: forward relevant writes into pending without blocking.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				log.Debug("change detected", zap.String("path", ev.Name))
				select {
				case pending <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn("watcher error", zap.Error(err))
			}
		}
	})

	// Re-check loop: debounce then run.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pending:
				timer := time.NewTimer(debounceWindow)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
				runAll()
			}
		}
	})

	err = g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}
