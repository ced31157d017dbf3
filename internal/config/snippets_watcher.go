package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches rapid file system events (editors often write a
// file several times in quick succession).
const debounceDelay = 100 * time.Millisecond

// SnippetsWatcher monitors the snippets directory and invokes a callback
// when a snippet file changes, so the chat loop always completes against
// the current set.
type SnippetsWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	onChange func()
	logger   *slog.Logger

	mu            sync.Mutex
	debounceTimer *time.Timer
	delay         time.Duration

	done    chan struct{}
	stopped chan struct{}
}

// NewSnippetsWatcher creates a watcher for dir. Call Start to begin
// watching and Close when done. onChange runs after each (debounced) batch
// of changes.
func NewSnippetsWatcher(dir string, logger *slog.Logger, onChange func()) (*SnippetsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SnippetsWatcher{
		watcher:  watcher,
		dir:      dir,
		onChange: onChange,
		logger:   logger,
		delay:    debounceDelay,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// SetDebounceDelay overrides the debounce delay. Must be called before
// Start.
func (w *SnippetsWatcher) SetDebounceDelay(d time.Duration) {
	w.mu.Lock()
	w.delay = d
	w.mu.Unlock()
}

// Start adds the directory watch and begins the event loop.
func (w *SnippetsWatcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.eventLoop()
	return nil
}

// Close stops the watcher and releases resources.
func (w *SnippetsWatcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	<-w.stopped
	return err
}

func (w *SnippetsWatcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSnippetFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("snippet change detected", "file", event.Name, "op", event.Op.String())
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("snippets watcher error", "error", err)
		}
	}
}

// scheduleReload (re)arms the debounce timer.
func (w *SnippetsWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.delay, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.onChange()
	})
}

func isSnippetFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
