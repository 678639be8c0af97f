package notes

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of writes (a sqlite commit touches -wal, then db).
const watchDebounce = 200 * time.Millisecond

// isContentChange reports whether event changed stored notes. Readers only
// create and remove the sqlite -wal/-shm files and write to -shm, so those
// events are ignored; only writes to the db file or the WAL count.
func isContentChange(event fsnotify.Event, base string) bool {
	switch filepath.Base(event.Name) {
	case base:
		// Create covers a store replaced by rename.
		return event.Op&(fsnotify.Write|fsnotify.Create) != 0
	case base + "-wal":
		return event.Op&fsnotify.Write != 0
	}
	return false
}

// Watch reports changes to the store file at path (or its sqlite WAL)
// until ctx is done. The returned channel is closed on exit.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan struct{}, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		watcher.Close()
		return nil, err
	}
	// Watch the directory: sqlite replaces -wal/-shm files and bbolt may be created later.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	base := filepath.Base(path)

	changes := make(chan struct{}, 1)

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		var closed bool
		var mu sync.Mutex

		defer func() {
			mu.Lock()
			closed = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			close(changes)
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isContentChange(event, base) {
					continue
				}

				mu.Lock()
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					mu.Lock()
					defer mu.Unlock()
					if closed {
						return
					}
					select {
					case changes <- struct{}{}:
					default:
					}
				})
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("notes: watch error", "path", path, "error", err)
			}
		}
	}()

	return changes, nil
}
