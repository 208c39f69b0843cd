package blog

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the content directory and fires a callback when files
// are added, changed or removed. The server uses it to flush the post
// cache and rebuild the search index.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchContent starts watching dir. onChange runs on the watcher
// goroutine, so keep it cheap or dispatch from it.
func WatchContent(dir string, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create content watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{watcher: fsWatcher, done: make(chan struct{})}

	go func() {
		for {
			select {
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					slog.Debug("content changed", "file", event.Name, "op", event.Op.String())
					onChange()
				}
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				slog.Warn("content watcher error", "error", err)
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watcher goroutine and releases the inotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
