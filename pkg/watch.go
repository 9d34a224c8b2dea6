package duplicatescanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps registering files that appear or change under the scanned
// roots after the initial scan. The registry is append-only, so every
// observation of a file adds a fresh record and the newest observation heads
// its chain.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	ignore   *IgnoreManager
	report   func(error)
	done     chan struct{}
	stopped  chan struct{}
}

// NewWatcher creates a watcher feeding the given registry. The reporter
// receives per-event errors and defaults to stderr.
func NewWatcher(registry *Registry, ignore *IgnoreManager, report func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if report == nil {
		report = func(err error) {
			fmt.Fprintf(os.Stderr, "Error: %v -Ignoring-\n", err)
		}
	}

	return &Watcher{
		registry: registry,
		watcher:  fsw,
		ignore:   ignore,
		report:   report,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// AddRoot recursively adds every directory under root to the watch set.
// Unreadable subtrees are reported and skipped.
func (w *Watcher) AddRoot(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.report(&AccessError{Path: path, Err: err})
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignore != nil && w.ignore.ShouldIgnore(path) {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.report(fmt.Errorf("cannot watch %s: %w", path, err))
		}
		return nil
	})
}

// Start begins processing filesystem events in a background goroutine
func (w *Watcher) Start() {
	go w.eventLoop()
}

// Stop shuts down the watcher and waits for the event loop to drain
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.watcher.Close()
	<-w.stopped
	return err
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(fmt.Errorf("watch error: %w", err))
		}
	}
}

// handleEvent registers created or written files. Newly created directories
// join the watch set so files appearing inside them are seen too.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if w.ignore != nil && w.ignore.ShouldIgnore(event.Name) {
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		// The path may already be gone; that is not worth reporting
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.watcher.Add(event.Name); err != nil {
				w.report(fmt.Errorf("cannot watch %s: %w", event.Name, err))
			}
		}
		return
	}

	if IsDebugEnabled("watch") {
		VerboseLog(3, "watch: registering %s after %s", event.Name, event.Op)
	}
	if err := w.registry.Register(event.Name, info.ModTime()); err != nil {
		w.report(fmt.Errorf("failed to register %s: %w", event.Name, err))
	}
}
