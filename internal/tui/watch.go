package tui

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events a single SQLite commit causes.
const watchDebounce = 150 * time.Millisecond

// catalogChangedMsg reports that the catalog file changed on disk.
type catalogChangedMsg struct{}

// watchCatalog calls notify after the database file at path, or its
// journal, changes. It watches the parent directory because SQLite
// replaces journal files instead of rewriting them. The returned function
// stops the watcher.
func watchCatalog(ctx context.Context, path string, notify func()) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	base := filepath.Base(path)
	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(ev.Name), base) {
					continue
				}
				if !ev.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.AfterFunc(watchDebounce, notify)
				} else {
					timer.Reset(watchDebounce)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return w.Close, nil
}
