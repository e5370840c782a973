package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherReportsWatchedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "project.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("{}"), 0o644))

	events := make(chan []FileChangeEvent, 4)
	fw, err := NewFileWatcher(func(batch []FileChangeEvent) { events <- batch })
	require.NoError(t, err)
	fw.SetDebounceDelay(20 * time.Millisecond)
	require.NoError(t, fw.AddFile(watched))
	fw.Start()
	defer fw.Stop()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte(`{"units":[]}`), 0o644))

	select {
	case batch := <-events:
		require.NotEmpty(t, batch)
		for _, e := range batch {
			assert.Equal(t, watched, e.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestFileWatcherStopWithoutStart(t *testing.T) {
	fw, err := NewFileWatcher(nil)
	require.NoError(t, err)
	require.NoError(t, fw.AddFile(filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, 1, len(fw.Files()))

	done := make(chan struct{})
	go func() {
		_ = fw.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked")
	}
}
