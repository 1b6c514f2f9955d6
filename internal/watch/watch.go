// Package watch re-runs an analysis whenever log files under the source
// root change. Every change triggers a full re-analysis; there is no
// incremental state between runs.
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

// DefaultDebounce coalesces the bursts of writes an active session
// produces into one re-run.
const DefaultDebounce = 2 * time.Second

// Runner performs one full analysis pass.
type Runner func(ctx context.Context) error

// Watch blocks, invoking run after each settled burst of changes under
// root, until ctx is canceled. Runner errors are logged, not fatal: a
// transient read failure should not end the watch.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *log.Logger, run Runner) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	if err := addRecursive(w, root); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// New project directories appear as the upstream tool starts
			// sessions in new working directories.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addRecursive(w, ev.Name); err != nil {
						logger.Printf("watch %s: %v", ev.Name, err)
					}
				}
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch error: %v", err)

		case <-fire:
			timer = nil
			fire = nil
			if err := run(ctx); err != nil {
				logger.Printf("re-analysis failed: %v", err)
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Base(ev.Name)
	return strings.HasSuffix(name, ".jsonl") || strings.HasSuffix(name, ".jsonl.zst")
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
