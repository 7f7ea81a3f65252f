package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startWatcher runs a watcher over dir and returns a channel of change
// notifications.
func startWatcher(t *testing.T, dir string) <-chan string {
	t.Helper()

	changes := make(chan string, 16)
	w, err := New(Config{
		VaultPath:     dir,
		DebounceDelay: 50 * time.Millisecond,
		OnChange:      func(path string) { changes <- path },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Start(ctx) }()

	// Give the watcher time to register the directory tree.
	time.Sleep(200 * time.Millisecond)
	return changes
}

func waitForChange(t *testing.T, changes <-chan string) string {
	t.Helper()
	select {
	case path := <-changes:
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return ""
	}
}

func expectQuiet(t *testing.T, changes <-chan string) {
	t.Helper()
	select {
	case path := <-changes:
		t.Fatalf("unexpected notification for %s", path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherReportsNoteWrites(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir)

	notePath := filepath.Join(dir, "launch.md")
	if err := os.WriteFile(notePath, []byte("# Launch\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	if got := waitForChange(t, changes); got != notePath {
		t.Errorf("got %q, want %q", got, notePath)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir)

	notePath := filepath.Join(dir, "busy.md")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(notePath, []byte("# Busy\n"), 0o644); err != nil {
			t.Fatalf("write note: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	waitForChange(t, changes)
	// The burst settles into one notification.
	expectQuiet(t, changes)
}

func TestWatcherIgnoresNonNotes(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".mission"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	changes := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".mission", "scratch.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write ignored note: %v", err)
	}

	expectQuiet(t, changes)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir)

	nested := filepath.Join(dir, "projects")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Let the watcher pick up the new directory before writing into it.
	time.Sleep(300 * time.Millisecond)

	notePath := filepath.Join(nested, "platform.md")
	if err := os.WriteFile(notePath, []byte("# Platform\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}

	if got := waitForChange(t, changes); got != notePath {
		t.Errorf("got %q, want %q", got, notePath)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{OnChange: func(string) {}}); err == nil {
		t.Error("missing vault path should error")
	}
	if _, err := New(Config{VaultPath: "/tmp"}); err == nil {
		t.Error("missing change handler should error")
	}
}
