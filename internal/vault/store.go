// Package vault provides access to the notes in a vault directory: full
// text reads and atomic full text writes, plus note enumeration.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aidanlsb/mission/internal/atomicfile"
	"github.com/aidanlsb/mission/internal/paths"
)

// Store is the note storage capability consumed by the reconciler. Paths
// are vault-relative or absolute; implementations resolve and validate
// them.
type Store interface {
	Read(path string) (string, error)
	Write(path, text string) error
}

// DirStore is a Store over a vault directory on disk.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at the vault directory.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Root returns the vault directory.
func (s *DirStore) Root() string {
	return s.root
}

// Abs resolves a note path against the vault root and verifies
// containment.
func (s *DirStore) Abs(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	if err := paths.ValidateWithinVault(s.root, path); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns a note's full text.
func (s *DirStore) Read(path string) (string, error) {
	abs, err := s.Abs(path)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	return string(content), nil
}

// Write replaces a note's full text atomically.
func (s *DirStore) Write(path, text string) error {
	abs, err := s.Abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create note directory: %w", err)
	}
	if err := atomicfile.WriteFile(abs, []byte(text), 0); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}

// WalkNotes calls handler with the absolute path of every markdown note in
// the vault, skipping ignored directories.
func (s *DirStore) WalkNotes(handler func(path string) error) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if paths.IsIgnored(s.root, path) && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !paths.IsNote(path) {
			return nil
		}
		return handler(path)
	})
}
