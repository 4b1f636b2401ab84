package adapter

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

// watchInBackground runs Watch until the test ends and collects every batch.
func watchInBackground(t *testing.T, paths []m.Path) func() [][]m.Path {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu      sync.Mutex
		batches [][]m.Path
		done    = make(chan error, 1)
	)

	go func() {
		done <- NewFSNotifyScriptWatcher(20*time.Millisecond).Watch(ctx, paths, func(changed []m.Path) {
			mu.Lock()
			defer mu.Unlock()
			batches = append(batches, changed)
		})
	}()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	return func() [][]m.Path {
		mu.Lock()
		defer mu.Unlock()
		return append([][]m.Path(nil), batches...)
	}
}

func TestFSNotifyScriptWatcher_ReportsChangedScripts(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "load.js")
	writeTestFile(t, script, "export default function () {}\n")

	batches := watchInBackground(t, []m.Path{m.Path(root + "/...")})

	require.Eventually(t, func() bool {
		writeTestFile(t, script, "export default function () { }\n")

		for _, batch := range batches() {
			if assert.ObjectsAreEqual([]m.Path{m.Path(script)}, batch) {
				return true
			}
		}

		return false
	}, 5*time.Second, 50*time.Millisecond)
}

func TestFSNotifyScriptWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	notes := filepath.Join(root, "notes.txt")
	script := filepath.Join(root, "smoke.ts")

	batches := watchInBackground(t, []m.Path{m.Path(root)})

	require.Eventually(t, func() bool {
		writeTestFile(t, notes, "todo\n")
		writeTestFile(t, script, "export default function () {}\n")

		return len(batches()) > 0
	}, 5*time.Second, 50*time.Millisecond)

	for _, batch := range batches() {
		assert.NotContains(t, batch, m.Path(notes))
	}
}

func TestFSNotifyScriptWatcher_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFSNotifyScriptWatcher(0).Watch(ctx, []m.Path{m.Path(t.TempDir())}, func([]m.Path) {
		t.Error("unexpected change")
	})

	assert.NoError(t, err)
}

func TestFSNotifyScriptWatcher_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	err := NewFSNotifyScriptWatcher(0).Watch(context.Background(), []m.Path{m.Path(missing + "/...")}, func([]m.Path) {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch "+missing)
}

func TestNewFSNotifyScriptWatcher_DefaultDebounce(t *testing.T) {
	assert.Equal(t, DefaultWatchDebounce, NewFSNotifyScriptWatcher(0).debounce)
	assert.Equal(t, time.Second, NewFSNotifyScriptWatcher(time.Second).debounce)
}

func TestWatchRoots(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "smoke.js")
	writeTestFile(t, script, "export default function () {}\n")

	tests := []struct {
		name  string
		paths []m.Path
		want  []watchRoot
	}{
		{"default", nil, []watchRoot{{dir: ".", recursive: true}}},
		{"recursive pattern", []m.Path{m.Path(root + "/...")}, []watchRoot{{dir: root, recursive: true}}},
		{"directory", []m.Path{m.Path(root)}, []watchRoot{{dir: root}}},
		{"file watches its directory", []m.Path{m.Path(script)}, []watchRoot{{dir: root}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, watchRoots(tt.paths))
		})
	}
}

func TestIsScriptChange(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write js", fsnotify.Event{Name: "a/load.js", Op: fsnotify.Write}, true},
		{"create ts", fsnotify.Event{Name: "a/load.ts", Op: fsnotify.Create}, true},
		{"remove mjs", fsnotify.Event{Name: "load.mjs", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "load.js", Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: "README.md", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isScriptChange(tt.event))
		})
	}
}

func TestAddWatchDirs_SkipsDependencyDirs(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "node_modules", "pkg"))
	mustMkdir(t, filepath.Join(root, "tests"))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })

	tracked := map[string]bool{}
	require.NoError(t, addWatchDirs(watcher, root, true, tracked))

	assert.True(t, tracked[root])
	assert.True(t, tracked[filepath.Join(root, "tests")])
	assert.False(t, tracked[filepath.Join(root, "node_modules")])
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "tests")}, watcher.WatchList())
}
