package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatched(t *testing.T) {
	assert.True(t, watched("/data/nodes/a/node.md"))
	assert.True(t, watched("/data/history.yaml"))
	assert.True(t, watched("/data/switchback.toml"))
	assert.False(t, watched("/data/switchback.log"))
	assert.False(t, watched("/data/.git/index"))
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nodes"), 0755))

	fired := make(chan struct{}, 10)
	stop, err := StartWatcher(root, func() { fired <- struct{}{} }, nil)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "goal.md"), []byte("---\ngoal: a\n---\n"), 0644))

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire")
	}
}

func TestStartWatcherIgnoresLog(t *testing.T) {
	root := t.TempDir()

	fired := make(chan struct{}, 10)
	stop, err := StartWatcher(root, func() { fired <- struct{}{} }, nil)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "switchback.log"), []byte("x"), 0644))

	select {
	case <-fired:
		t.Fatal("log writes must not trigger a reload")
	case <-time.After(2 * debounce):
	}
}
