// Package watcher re-reads the open document when something else
// writes it, so the viewer stays current without a manual reload.
package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mdview/internal/logger"
)

// Watcher follows a single file at a time. It watches the containing
// directory rather than the file itself so that editors which replace
// the file on save (write temp, rename over) keep triggering.
type Watcher struct {
	fs       *fsnotify.Watcher
	log      logger.Logger
	onChange func(path string)

	mu         sync.Mutex
	path       string
	watchedDir string
}

// New starts a Watcher delivering change notifications for the
// currently followed file to onChange. onChange runs on the watcher
// goroutine.
func New(onChange func(path string), log logger.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	w := &Watcher{fs: fs, log: log, onChange: onChange}
	go w.run()
	return w, nil
}

// Follow points the watcher at path, replacing any previous file.
func (w *Watcher) Follow(path string) error {
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watchedDir != "" && w.watchedDir != dir {
		if err := w.fs.Remove(w.watchedDir); err != nil {
			w.log.Warning("Watcher", "failed to drop old watch", map[string]interface{}{"dir": w.watchedDir, "error": err.Error()})
		}
		w.watchedDir = ""
	}
	if w.watchedDir == "" {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.watchedDir = dir
	}
	w.path = path
	return nil
}

// Close stops the watcher goroutine.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) run() {
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
			w.log.Warning("Watcher", "watch error", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.mu.Lock()
	path := w.path
	w.mu.Unlock()

	if path == "" || event.Name != path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.onChange(path)
}
