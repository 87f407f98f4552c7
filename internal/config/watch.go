package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// mappingsDebounce collapses the burst of events a single save produces
const mappingsDebounce = 100 * time.Millisecond

// WatchMappings monitors a mappings file and calls onChange with the newly
// parsed tables each time it is saved. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file, so atomic saves
// (temp file renamed over the target) keep triggering reloads. A reload that
// fails to parse is logged and skipped, so the previous tables stay active.
func WatchMappings(ctx context.Context, path string, logger *slog.Logger, onChange func(*Mappings)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.InfoContext(ctx, "watching mappings for changes", "path", path)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			reload = time.After(mappingsDebounce)

		case <-reload:
			reload = nil

			m, err := LoadMappings(path)
			if err != nil {
				logger.ErrorContext(ctx, "mappings reload failed, keeping previous tables",
					"path", path, "error", err)
				continue
			}

			logger.InfoContext(ctx, "mappings reloaded", "path", path)
			onChange(m)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorContext(ctx, "mappings watcher error", "error", err)
		}
	}
}
