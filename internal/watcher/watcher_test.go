package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerstatic/aer/internal/logging"
)

func TestNoDotfileFilterRejectsDotComponents(t *testing.T) {
	assert.False(t, NoDotfileFilter(filepath.Join("site", ".git", "HEAD")))
	assert.False(t, NoDotfileFilter(".aer/cache"))
	assert.True(t, NoDotfileFilter("site/about.md"))
}

func TestFileWatcherDeliversDebouncedBatch(t *testing.T) {
	root := t.TempDir()
	fw, err := New(root, 50*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(NoDotfileFilter)

	received := make(chan []ChangeEvent, 1)
	fw.AddHandler(func(events []ChangeEvent) error {
		received <- events
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	path := filepath.Join(root, "about.md")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("hi again"), 0o644))

	select {
	case batch := <-received:
		require.Len(t, batch, 1)
		assert.Equal(t, path, batch[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced batch")
	}
}
