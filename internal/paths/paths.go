// Package paths provides canonical helpers for vault-relative note paths
// and path containment checks shared by the store, watcher, and CLI.
package paths

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathOutsideVault indicates a path that escapes the vault directory.
var ErrPathOutsideVault = errors.New("path is outside the vault")

// IgnoredDirs are directory names never treated as note content.
var IgnoredDirs = []string{".mission", ".obsidian", ".git", ".trash", "node_modules"}

// ValidateWithinVault verifies that path resolves inside vaultPath.
func ValidateWithinVault(vaultPath, path string) error {
	vaultAbs, err := filepath.Abs(vaultPath)
	if err != nil {
		return err
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(vaultAbs, pathAbs)
	if err != nil {
		return err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathOutsideVault
	}
	return nil
}

// IsIgnored reports whether any component of the vault-relative path is an
// ignored directory.
func IsIgnored(vaultPath, path string) bool {
	rel, err := filepath.Rel(vaultPath, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		for _, ignored := range IgnoredDirs {
			if part == ignored {
				return true
			}
		}
	}
	return false
}

// IsNote reports whether a path names a markdown note.
func IsNote(path string) bool {
	return strings.HasSuffix(path, ".md")
}
