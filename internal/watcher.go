package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify watcher with media file filtering. Newly
// created files in the watched folders are fed through the ingestion
// pipeline once they have settled on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	exts    []string
	events  chan string
	errors  chan error
	done    chan bool
}

// settleDelay is how long a new file must be quiet before ingestion, so a
// copy in progress is not hashed half-written.
const settleDelay = 2 * time.Second

// NewWatcher creates a filesystem watcher over the given source folders,
// recursively.
func NewWatcher(folders []string, exts []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsWatcher,
		exts:    exts,
		events:  make(chan string, 100),
		errors:  make(chan error, 10),
		done:    make(chan bool, 1),
	}

	for _, folder := range folders {
		if err := w.addRecursive(folder); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}

	// Start processing events in background
	go w.processEvents()

	return w, nil
}

// addRecursive adds a directory and all its subdirectories to the watcher
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// processEvents filters raw fsnotify events down to candidate media files
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.isMediaFile(event.Name) {
				// A new subfolder must be watched too
				if event.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						w.addRecursive(event.Name)
					}
				}
				continue
			}

			if event.Op&fsnotify.Create != fsnotify.Create &&
				event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}

			select {
			case w.events <- event.Name:
			default:
				// Event channel is full, drop event
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Error channel is full, drop error
			}

		case <-w.done:
			return
		}
	}
}

// Events returns the channel of candidate file paths
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cleans up resources
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// isMediaFile checks a path against the recognized extensions
func (w *Watcher) isMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Run consumes watch events until the context is cancelled, ingesting each
// settled file through the pipeline. Events arrive on one goroutine, so all
// store writes stay serialized.
func (w *Watcher) Run(ctx context.Context, org *Organizer, onResult func(FileResult)) error {
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-w.events:
			pending[path] = time.Now()

		case err := <-w.errors:
			org.log.Error("watcher error", "error", err)

		case <-ticker.C:
			for path, seen := range pending {
				if time.Since(seen) < settleDelay {
					continue
				}
				delete(pending, path)

				if _, err := os.Stat(path); err != nil {
					continue // disappeared before it settled
				}

				result := org.ProcessFile(ctx, path)
				if onResult != nil {
					onResult(result)
				}
			}
		}
	}
}
