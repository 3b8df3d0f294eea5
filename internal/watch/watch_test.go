package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	for range 10 {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestDebouncerRunsLastCallback(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var got atomic.Int32
	for i := 1; i <= 3; i++ {
		d.Trigger(func() { got.Store(int32(i)) })
	}
	require.Eventually(t, func() bool { return got.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	require.Zero(t, calls.Load())
}

func TestDebouncerDefault(t *testing.T) {
	require.Equal(t, DefaultDebounce, NewDebouncer(0).Duration())
}

func TestHashes(t *testing.T) {
	h := ContentHash([]byte("hello world"))
	require.Equal(t, "sha256:b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", h)
	require.NotEqual(t, h, ContentHash([]byte("different")))

	path := filepath.Join(t.TempDir(), "issues.csv")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	fh, err := FileHash(path)
	require.NoError(t, err)
	require.Equal(t, h, fh)

	_, err = FileHash(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWatcherMissingFile(t *testing.T) {
	w := &Watcher{Path: filepath.Join(t.TempDir(), "missing.csv")}
	err := w.Run(context.Background(), func(context.Context) error { return nil })
	require.Error(t, err)
}

func TestWatcherReportsContentChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.csv")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	w := &Watcher{Path: path, Debounce: 20 * time.Millisecond}
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			changes <- struct{}{}
			return nil
		})
	}()

	// Keep writing new content until the watcher is up and reports it.
	var last string
	seen := false
	for i := 1; i <= 50 && !seen; i++ {
		last = fmt.Sprintf("v%d", i)
		require.NoError(t, os.WriteFile(path, []byte(last), 0o644))
		select {
		case <-changes:
			seen = true
		case <-time.After(50 * time.Millisecond):
		}
	}
	require.True(t, seen, "no change reported")

	// Drain callbacks for writes still in flight.
	drain := time.After(200 * time.Millisecond)
	for draining := true; draining; {
		select {
		case <-changes:
		case <-drain:
			draining = false
		}
	}

	// Same bytes again: no callback.
	require.NoError(t, os.WriteFile(path, []byte(last), 0o644))
	select {
	case <-changes:
		t.Fatal("callback for unchanged content")
	case <-time.After(200 * time.Millisecond):
	}

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o644))
	select {
	case <-changes:
		t.Fatal("callback for another file")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
