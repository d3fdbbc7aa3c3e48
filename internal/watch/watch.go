// Package watch re-runs work when input files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of writes must settle before a rerun.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a fixed set of files.
//
// The parent directories are watched rather than the files themselves so
// that spreadsheet editors which save by writing a temporary file and
// renaming it over the original are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	targets  map[string]bool
	Debounce time.Duration
}

// New starts watching paths. Changes are delivered once Run is called.
func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{fs: fw, targets: make(map[string]bool), Debounce: DefaultDebounce}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.targets[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run blocks until ctx is done, calling fn with the changed path after each
// burst of changes settles. The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	defer func() { _ = w.fs.Close() }()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.targets[name] {
				continue
			}
			pending = name
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fn(pending)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// Close stops watching without running.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
