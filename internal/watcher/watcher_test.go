package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	var calls int32
	require.NoError(t, w.Watch(path, func() { atomic.AddInt32(&calls, 1) }))

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherUnwatchAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New(0)
	require.NoError(t, err)

	require.NoError(t, w.Watch(path, func() {}))
	require.NoError(t, w.Unwatch(path))
	assert.ErrorIs(t, w.Unwatch(path), ErrNotWatching)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Watch(path, func() {}), ErrWatcherClosed)
}
