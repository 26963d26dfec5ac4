package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the mapping whenever the store file changes, until ctx is
// cancelled. Bursts of events are coalesced into one reload. The parent
// directory is watched so that replace-by-rename writes are seen.
func (m *ConfigManager) Watch(ctx context.Context) error {
	path, err := filepath.Abs(m.repo.Location())
	if err != nil {
		return fmt.Errorf("failed to resolve store path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	m.logger.Info("watching provider configuration", zap.String("path", path))

	timer := time.NewTimer(m.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			m.logger.Debug("configuration file changed", zap.String("op", event.Op.String()))
			timer.Reset(m.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("configuration watcher error", zap.Error(err))

		case <-timer.C:
			if err := m.Reload(ctx); err != nil {
				m.logger.Warn("configuration reload after change failed", zap.Error(err))
			}
		}
	}
}
