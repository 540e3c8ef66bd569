package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrec/tvrec-server/internal/logger"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()

	w, err := New(logger.Nop(), path, Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx) //nolint:errcheck // Test goroutine

	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(logger.Nop(), filepath.Join(t.TempDir(), "nope", "ratings.csv"), Options{})
	assert.Error(t, err)
}

func TestWatcher_Modified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Rating\n"), 0o600))

	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("Title,Rating\nJujutsu Kaisen,90\n"), 0o600))

	ev := waitEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, w.Path(), ev.Path)
	assert.Equal(t, int64(len("Title,Rating\nJujutsu Kaisen,90\n")), ev.Size)
}

func TestWatcher_AddedThenRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("Title,Rating\n"), 0o600))
	assert.Equal(t, EventAdded, waitEvent(t, w).Type)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, EventRemoved, waitEvent(t, w).Type)
}

func TestWatcher_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	w := startWatcher(t, path)

	tmp := filepath.Join(dir, "ratings.csv.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("new content\n"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	ev := waitEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, int64(len("new content\n")), ev.Size)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "ratings.csv"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o600))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for sibling file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_BurstSettlesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	w, err := New(logger.Nop(), path, Options{SettleDelay: 200 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	go w.Start(t.Context()) //nolint:errcheck // Test goroutine

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte(string(rune('a'+i))+"bc"), 0o600))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, EventModified, waitEvent(t, w).Type)

	select {
	case ev := <-w.Events():
		t.Fatalf("expected a single settled event, got another: %+v", ev)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(logger.Nop(), filepath.Join(t.TempDir(), "ratings.csv"), Options{})
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
