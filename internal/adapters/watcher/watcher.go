package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// DefaultWindow is the debounce window applied between a file system event
// and the change notification. Editors often write a file several times per
// save; one window covers the whole burst.
const DefaultWindow = 100 * time.Millisecond

const batchChannelBuffer = 16

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher using fsnotify with debounced delivery.
type Watcher struct {
	window  time.Duration
	include []string
	log     ports.Logger
}

// NewWatcher creates a watcher reporting changes to files matching the
// include patterns.
func NewWatcher(window time.Duration, include []string, log ports.Logger) *Watcher {
	return &Watcher{
		window:  window,
		include: include,
		log:     log,
	}
}

// Watch implements ports.Watcher. It blocks until ctx is cancelled. onChange
// runs on the calling goroutine; batched paths are delivered in sorted
// order.
func (w *Watcher) Watch(ctx context.Context, root string, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer fw.Close() //nolint:errcheck // Release on shutdown

	if err := addTree(fw, root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch directory tree"), "root", root)
	}

	batches := make(chan []string, batchChannelBuffer)
	deb := NewDebouncer(w.window, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case batch := <-batches:
			slices.Sort(batch)
			for _, path := range batch {
				onChange(path)
			}

		case event, ok := <-fw.Events:
			if !ok {
				return domain.ErrWatcherClosed
			}
			w.handleEvent(fw, event, deb)

		case err, ok := <-fw.Errors:
			if !ok {
				return domain.ErrWatcherClosed
			}
			w.log.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event, deb *Debouncer) {
	// A created directory must be watched before anything inside it
	// changes. Walk errors here are transient (the directory may already
	// be gone again) and the next event retries.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = addTree(fw, event.Name)
			return
		}
	}

	const fileOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	if event.Op&fileOps == 0 {
		return
	}

	if w.matches(filepath.Base(event.Name)) {
		deb.Add(event.Name)
	}
}

func (w *Watcher) matches(name string) bool {
	for _, pattern := range w.include {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// addTree registers root and every non-hidden directory below it with the
// fsnotify watcher.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
