package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Relevant(t *testing.T) {
	w := NewWatcher(NewGenerator(Config{}, silent()), 0)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"source write", fsnotify.Event{Name: "/p/counter.go", Op: fsnotify.Write}, true},
		{"source create", fsnotify.Event{Name: "/p/new.go", Op: fsnotify.Create}, true},
		{"source remove", fsnotify.Event{Name: "/p/old.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/p/counter.go", Op: fsnotify.Chmod}, false},
		{"generated output", fsnotify.Event{Name: "/p/counter_ctrlgen.go", Op: fsnotify.Write}, false},
		{"test file", fsnotify.Event{Name: "/p/counter_test.go", Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: "/p/.counter.go", Op: fsnotify.Write}, false},
		{"not go", fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatcher_Debounce(t *testing.T) {
	w := NewWatcher(NewGenerator(Config{}, silent()), 20*time.Millisecond)
	defer close(w.done)

	for range 5 {
		w.schedule("/p")
	}

	select {
	case dir := <-w.ready:
		assert.Equal(t, "/p", dir)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced directory was never queued")
	}

	select {
	case dir := <-w.ready:
		t.Fatalf("directory %s queued twice", dir)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_Regenerates(t *testing.T) {
	root := newTestModule(t, map[string]string{"flags/flags.go": flagsSource})
	dir := filepath.Join(root, "flags")
	out := filepath.Join(dir, "flags_ctrlgen.go")

	g := NewGenerator(Config{Directories: []string{dir}}, silent())
	w := NewWatcher(g, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// the watch may not be registered yet; keep touching the file
	require.Eventually(t, func() bool {
		if _, err := os.Stat(out); err == nil {
			return true
		}
		_ = os.WriteFile(filepath.Join(dir, "flags.go"), []byte(flagsSource), 0o644)
		return false
	}, 5*time.Second, 100*time.Millisecond)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "type MsgSetFlag struct")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
