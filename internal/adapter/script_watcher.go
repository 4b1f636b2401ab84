package adapter

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

// DefaultWatchDebounce is how long the watcher waits for further changes
// before reporting a batch.
const DefaultWatchDebounce = 200 * time.Millisecond

// ScriptWatcher reports changes to scripts under a set of path patterns.
type ScriptWatcher interface {
	// Watch blocks until ctx is done. Changes that arrive within one debounce
	// window are reported together as sorted, de-duplicated paths.
	Watch(ctx context.Context, paths []m.Path, onChange func(changed []m.Path)) error
}

// FSNotifyScriptWatcher is the fsnotify-backed ScriptWatcher.
type FSNotifyScriptWatcher struct {
	debounce time.Duration
}

// NewFSNotifyScriptWatcher returns a watcher batching changes over debounce.
// A non-positive debounce falls back to DefaultWatchDebounce.
func NewFSNotifyScriptWatcher(debounce time.Duration) *FSNotifyScriptWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &FSNotifyScriptWatcher{debounce: debounce}
}

func (w *FSNotifyScriptWatcher) Watch(ctx context.Context, paths []m.Path, onChange func(changed []m.Path)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// recursive holds the directories whose new sub-directories are watched too.
	recursive := make(map[string]bool)

	for _, root := range watchRoots(paths) {
		if err := addWatchDirs(watcher, root.dir, root.recursive, recursive); err != nil {
			return fmt.Errorf("watch %s: %w", root.dir, err)
		}
	}

	pending := make(map[m.Path]bool)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) && recursive[filepath.Dir(event.Name)] {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, event.Name, true, recursive); err != nil {
						slog.WarnContext(ctx, "Failed to watch new directory", "path", event.Name, "error", err)
					}

					continue
				}
			}

			if !isScriptChange(event) {
				continue
			}

			pending[m.Path(event.Name)] = true

			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.WarnContext(ctx, "Watcher error", "error", err)

		case <-fire:
			fire = nil

			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)

			onChange(changed)
		}
	}
}

type watchRoot struct {
	dir       string
	recursive bool
}

// watchRoots maps path patterns to the directories holding their scripts.
// A file pattern watches its parent directory only.
func watchRoots(paths []m.Path) []watchRoot {
	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	roots := make([]watchRoot, 0, len(paths))

	for _, pattern := range paths {
		dir, recursive := splitPattern(string(pattern))

		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
			recursive = false
		}

		roots = append(roots, watchRoot{dir: filepath.Clean(dir), recursive: recursive})
	}

	return roots
}

func addWatchDirs(watcher *fsnotify.Watcher, root string, recursive bool, tracked map[string]bool) error {
	if !recursive {
		return watcher.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}

		tracked[filepath.Clean(path)] = true

		return watcher.Add(path)
	})
}

func isScriptChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	_, ok := m.LanguageOf(m.Path(event.Name))

	return ok
}
