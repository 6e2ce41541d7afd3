// Package watch re-runs a handler when definition files change.
//
// The parent directory of every file is watched rather than the file
// itself, so editors that save by writing a new file and renaming it over
// the old one keep triggering events. Bursts of events for the same file
// are debounced into a single call.
package watch

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// DefaultDebounce is how long a file must be quiet before the handler runs.
const DefaultDebounce = 300 * time.Millisecond

// tick is how often pending events are checked.
const tick = 50 * time.Millisecond

// Handler is called with the path of a changed file.
type Handler func(ctx context.Context, path string)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Watcher watches a fixed set of files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	handler  Handler
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher for files. Paths are made absolute; the files must
// exist.
func New(files []string, handler Handler, opts Options) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no files to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool, len(files)),
		handler:  handler,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		pending:  make(map[string]time.Time),
	}

	var dirs []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", f)
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", dir)
		}
		w.logger.Debug("watching directory", "dir", dir)
	}
	return w, nil
}

// Run dispatches events until ctx is done, then closes the watcher.
// Handlers run on the calling goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "err", err)

		case <-ticker.C:
			for _, path := range w.due(time.Now()) {
				if ctx.Err() != nil {
					return nil
				}
				w.handler(ctx, path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.files[event.Name] {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return // chmod, remove
	}
	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// due returns the pending files that have been quiet for the debounce
// interval, in sorted order.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(out)
	return out
}
