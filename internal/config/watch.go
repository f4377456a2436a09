package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lunahq/muse/internal/observability"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

// Watch re-validates the config file at path whenever it changes, reporting
// results through logger: violations at error level, a confirmation at info
// level when the file is clean. It blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *observability.Logger) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// a direct file watch goes stale after the first rename.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	validator := NewValidator(logger)
	var timer *time.Timer
	var fire <-chan time.Time

	revalidate := func() {
		snapshot, err := Snapshot(absPath)
		if err != nil {
			logger.Warn(ctx, "config reload failed", "path", absPath, "error", err)
			return
		}
		validator.Validate(ctx, snapshot, false)
		if len(Check(snapshot)) == 0 {
			logger.Info(ctx, "config valid", "path", absPath)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fire:
			fire = nil
			revalidate()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "config watch error", "error", err)
		}
	}
}
