package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, calls chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for call %d", i+1)
		}
	}
}

func TestFile_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	if err := os.WriteFile(path, []byte("steps: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	var count atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, Options{Debounce: 20 * time.Millisecond}, func(context.Context) error {
			count.Add(1)
			calls <- struct{}{}
			return nil
		})
	}()

	waitFor(t, calls, 1)

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("steps: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, calls, 1)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil on cancel, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	if got := count.Load(); got < 2 {
		t.Errorf("expected at least 2 calls, got %d", got)
	}
}

func TestFile_HandlerErrorKeepsWatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	go func() {
		_ = File(ctx, path, Options{Debounce: 10 * time.Millisecond}, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("bad job")
		})
	}()

	waitFor(t, calls, 1)
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, calls, 1)
}

func TestFile_MissingDirectory(t *testing.T) {
	err := File(context.Background(), filepath.Join(t.TempDir(), "nope", "job.yaml"), Options{}, func(context.Context) error {
		return nil
	})
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
