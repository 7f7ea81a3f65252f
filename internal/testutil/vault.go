// Package testutil provides reusable test utilities for Mission tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithNote adds a markdown note to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithNote(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithMissionYAML sets the mission.yaml content for the vault.
func (v *TestVault) WithMissionYAML(yaml string) *TestVault {
	v.files["mission.yaml"] = yaml
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()

	for path, content := range v.files {
		v.WriteFile(path, content)
	}

	return v
}

// WriteFile writes a file to the vault, creating directories as needed.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	_, err := os.Stat(fullPath)
	return err == nil
}
