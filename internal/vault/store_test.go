package vault

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/aidanlsb/mission/internal/paths"
	"github.com/aidanlsb/mission/internal/testutil"
)

func TestReadWriteRoundTrip(t *testing.T) {
	tv := testutil.NewTestVault(t).Build()
	store := NewDirStore(tv.Path)

	if err := store.Write("notes/launch.md", "# Launch\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.Read("notes/launch.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "# Launch\n" {
		t.Errorf("got %q", got)
	}

	// Absolute paths inside the vault resolve to the same note.
	abs := filepath.Join(tv.Path, "notes", "launch.md")
	if got, err := store.Read(abs); err != nil || got != "# Launch\n" {
		t.Errorf("absolute read: %q, %v", got, err)
	}
}

func TestContainment(t *testing.T) {
	store := NewDirStore(testutil.NewTestVault(t).Build().Path)

	if _, err := store.Read("../outside.md"); !errors.Is(err, paths.ErrPathOutsideVault) {
		t.Errorf("Read outside: got %v, want ErrPathOutsideVault", err)
	}
	if err := store.Write("../outside.md", "x"); !errors.Is(err, paths.ErrPathOutsideVault) {
		t.Errorf("Write outside: got %v, want ErrPathOutsideVault", err)
	}
}

func TestWalkNotes(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("a.md", "# A\n").
		WithNote("nested/b.md", "# B\n").
		WithNote(".mission/ignored.md", "not a note\n").
		WithNote(".trash/gone.md", "not a note\n").
		Build()
	tv.WriteFile("readme.txt", "not markdown\n")

	store := NewDirStore(tv.Path)

	var visited []string
	err := store.WalkNotes(func(path string) error {
		rel, err := filepath.Rel(tv.Path, path)
		if err != nil {
			t.Fatalf("Rel: %v", err)
		}
		visited = append(visited, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("WalkNotes: %v", err)
	}

	sort.Strings(visited)
	want := []string{"a.md", "nested/b.md"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited %v, want %v", visited, want)
			break
		}
	}
}
