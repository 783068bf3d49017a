// Package watch observes a directory for new or changed documents and hands
// each settled file to a handler, debouncing the bursts of events editors and
// network copies produce for a single save.
package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"
)

// DefaultDebounce is the quiet period required before a changed file is
// considered settled.
const DefaultDebounce = 500 * time.Millisecond

// DefaultExtensions are the document extensions handled when none are
// configured.
var DefaultExtensions = []string{".txt", ".text", ".md"}

// Handler receives the path of a settled document.
type Handler func(path string)

// Config holds configuration for a directory Watcher.
type Config struct {
	// Dir is the directory to watch. Required.
	Dir string

	// Debounce is the quiet period per file. Default: DefaultDebounce.
	Debounce time.Duration

	// Extensions filters which files are handled (lowercase, with dot).
	// Default: DefaultExtensions.
	Extensions []string
}

// Watcher watches one directory and invokes the handler for each document
// that stops changing.
type Watcher struct {
	dir        string
	debounce   time.Duration
	extensions map[string]bool
	handler    Handler

	watcher  *fsnotify.Watcher
	stopChan chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a directory watcher. The handler is called once per settled
// file, possibly from multiple goroutines.
func New(config Config, handler Handler) (*Watcher, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("watch: directory is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("watch: handler is required")
	}

	debounce := config.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	extensions := config.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extensionSet := make(map[string]bool, len(extensions))
	for _, extension := range extensions {
		extensionSet[strings.ToLower(extension)] = true
	}

	return &Watcher{
		dir:        config.Dir,
		debounce:   debounce,
		extensions: extensionSet,
		handler:    handler,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})

	go w.watchLoop()

	if err := watcher.Add(w.dir); err != nil {
		w.Stop()
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	return nil
}

// Stop stops watching and cancels pending debounce timers. Handlers already
// in flight run to completion.
func (w *Watcher) Stop() {
	if w.stopChan != nil {
		close(w.stopChan)
		w.stopChan = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// watchLoop handles file system events until stopped.
func (w *Watcher) watchLoop() {
	stopChan := w.stopChan
	for {
		select {
		case <-stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isWatchedFile(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write:
				w.scheduleHandle(event.Name)

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				w.cancelPending(event.Name)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching through transient errors.
		}
	}
}

// isWatchedFile reports whether the path carries a handled extension.
func (w *Watcher) isWatchedFile(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// scheduleHandle (re)starts the debounce timer for a path. The handler fires
// only after the file has been quiet for the full debounce period.
func (w *Watcher) scheduleHandle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.handler(path)
	})
}

// cancelPending drops the debounce timer for a removed or renamed path.
func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
		delete(w.pending, path)
	}
}
