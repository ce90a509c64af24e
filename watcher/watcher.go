// Package watcher turns filesystem change notifications into debounced
// batches of root-relative paths. The engine consumes the batches to evict
// cache entries and indexed symbols eagerly; the fingerprint check remains
// the authoritative coherence rule.
package watcher

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"codescope/ignore"
)

// Watcher recursively watches a project root. Newly created directories are
// added to the watch set as they appear.
type Watcher struct {
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	ignores   *ignore.Matcher
	root      string
	logger    *slog.Logger
}

// New creates a watcher over root, registering every non-ignored directory.
func New(root string, ignores *ignore.Matcher, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:        fsw,
		debouncer: NewDebouncer(100 * time.Millisecond),
		ignores:   ignores,
		root:      root,
		logger:    logger,
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil
		}
		if p != root && ignores.SkipDir(w.rel(p)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			w.logger.Warn("cannot watch directory", "path", p, "error", err)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events returns the debounced batch channel.
func (w *Watcher) Events() <-chan []Event {
	return w.debouncer.Output()
}

// Run pumps raw notifications into the debouncer until the watcher closes.
// Call it in a goroutine.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	rel := w.rel(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignores.SkipDir(rel) {
				if err := w.fs.Add(event.Name); err != nil {
					w.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}
	if w.ignores.Skip(rel, false) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.debouncer.Add(rel, OpRemove)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.debouncer.Add(rel, OpChange)
	}
}

func (w *Watcher) rel(abs string) string {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
