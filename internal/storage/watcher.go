package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WatchSettings reloads the settings file whenever it changes on disk and
// calls onChange with the result. It watches the parent directory so the
// file can be created, replaced or removed by editors. Blocks until ctx is done.
func WatchSettings(ctx context.Context, file *SettingsFile, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(file.Path())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	const debounce = 200 * time.Millisecond
	var pending <-chan time.Time
	target := filepath.Clean(file.Path())

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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			if _, err := file.Reload(); err != nil {
				log.Warn().Err(err).Str("path", target).Msg("Settings reload failed")
			} else {
				log.Info().Str("path", target).Msg("Settings reloaded")
			}
			if onChange != nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Settings watcher error")
		}
	}
}
