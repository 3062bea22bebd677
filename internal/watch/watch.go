// Package watch triggers rebuilds when chat logs or session summaries
// change on disk.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Run is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a fixed set of input directories.
type Watcher struct {
	fs   *fsnotify.Watcher
	dirs []string
}

// New starts watching dirs. Directories that do not exist are skipped with
// a warning; it is an error if none can be watched.
func New(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{fs: fw}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			log.Printf("warning: not watching %s: not a directory", dir)
			continue
		}
		if err := fw.Add(dir); err != nil {
			log.Printf("warning: watch %s: %v", dir, err)
			continue
		}
		w.dirs = append(w.dirs, dir)
	}
	if len(w.dirs) == 0 {
		fw.Close()
		return nil, fmt.Errorf("no directories to watch")
	}
	return w, nil
}

// Dirs returns the directories being watched.
func (w *Watcher) Dirs() []string { return w.dirs }

// Close stops watching.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run calls fn once per burst of relevant changes, after debounce has
// passed with no further events. fn runs on the calling goroutine, so
// builds never overlap. Run returns when ctx is cancelled or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, fn func(context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !Relevant(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			pending = true
			timer.Reset(debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("warning: watch: %v", err)

		case <-timer.C:
			if pending {
				pending = false
				fn(ctx)
			}
		}
	}
}

// Run watches dirs until ctx is cancelled, calling fn after each debounced
// burst of changes.
func Run(ctx context.Context, dirs []string, debounce time.Duration, fn func(context.Context)) error {
	w, err := New(dirs...)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, debounce, fn)
}

// Relevant reports whether a change to path should trigger a rebuild:
// chat logs (.jsonl, .jsonl.zst) and markdown summaries, ignoring hidden
// and temporary files.
func Relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	for _, ext := range []string{".jsonl", ".jsonl.zst", ".md"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}
