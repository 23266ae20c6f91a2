package cli

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"

	"github.com/toyz/ctrlgen/internal/errors"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 200 * time.Millisecond

// Watcher regenerates packages when their source files change
type Watcher struct {
	generator *Generator
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
	done    chan struct{}
}

// NewWatcher creates a watcher driving g. A Watcher runs Watch once.
func NewWatcher(g *Generator, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		generator: g,
		debounce:  debounce,
		pending:   make(map[string]*time.Timer),
		ready:     make(chan string, 16),
		done:      make(chan struct{}),
	}
}

// Watch blocks until ctx is done, regenerating each package directory some
// time after its last source change. Generation failures are reported and
// do not stop the watcher.
func (w *Watcher) Watch(ctx context.Context) (err error) {
	dirs, err := w.generator.scanner.ScanDirectories(w.generator.config.Directories)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.FileSystemErrorCode, "failed to start file watcher", err)
	}
	defer func() {
		close(w.done)
		w.stopTimers()
		err = multierr.Append(err, fsw.Close())
	}()

	for _, dir := range dirs {
		if addErr := fsw.Add(dir); addErr != nil {
			err = multierr.Append(err, errors.WrapFileSystemError("watch", dir, addErr))
		}
	}
	if err != nil {
		return err
	}

	diag := w.generator.diagnostics
	diag.Info("Watching %d packages", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule(filepath.Dir(event.Name))
			}
		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			diag.Warn("watch: %v", watchErr)
		case dir := <-w.ready:
			diag.Info("Regenerating %s", relPath(dir))
			if genErr := w.generator.ProcessPackage(dir); genErr != nil {
				diag.ReportError(genErr)
			}
		}
	}
}

// relevant reports whether event touches a source file of a package
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, w.generator.fileProcessor.Suffix()) &&
		!strings.HasPrefix(name, ".")
}

// schedule queues dir for regeneration once no change arrived for the
// debounce interval
func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[dir] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, dir)
		w.mu.Unlock()
		select {
		case w.ready <- dir:
		case <-w.done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir, t := range w.pending {
		t.Stop()
		delete(w.pending, dir)
	}
}
