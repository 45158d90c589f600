// Package watch forwards log files as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aneoconsulting/logship/internal/ports"
)

// DefaultDebounce is how long a file must stay untouched before it is handled.
const DefaultDebounce = 2 * time.Second

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors a directory via fsnotify and hands every new log file to
// a Handler once writes to it have stopped. Files are handled one at a time,
// on the goroutine that called Run, and each path at most once.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   ports.Logger

	pending map[string]time.Time
	done    map[string]bool
}

// New creates a watcher for dir.
func New(dir string, debounce time.Duration, handler Handler, logger ports.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   logger,
		pending:  make(map[string]time.Time),
		done:     make(map[string]bool),
	}
}

// Eligible reports whether name looks like a forwardable log file.
// Partial downloads and temporary files are ignored.
func Eligible(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	if strings.HasPrefix(lower, ".") || strings.HasSuffix(lower, ".part") || strings.HasSuffix(lower, ".tmp") {
		return false
	}
	for _, ext := range []string{".json", ".log", ".gz", ".tgz", ".zip"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Run watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching", ports.String("dir", w.dir), ports.Duration("debounce", w.debounce))

	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !Eligible(event.Name) || w.done[event.Name] {
				continue
			}
			w.pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", ports.Err(err))

		case now := <-ticker.C:
			w.handleSettled(ctx, now)
		}
	}
}

// handleSettled runs the handler on every pending file quiet for debounce.
func (w *Watcher) handleSettled(ctx context.Context, now time.Time) {
	for _, path := range w.settled(now) {
		delete(w.pending, path)
		w.done[path] = true

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error("forward failed", ports.String("file", path), ports.Err(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// settled returns the pending paths quiet for debounce, oldest first.
func (w *Watcher) settled(now time.Time) []string {
	var paths []string
	for p, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return w.pending[paths[i]].Before(w.pending[paths[j]])
	})
	return paths
}
