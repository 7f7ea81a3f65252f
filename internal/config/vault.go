package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/mission/internal/atomicfile"
)

// VaultConfig represents vault-level configuration from mission.yaml.
type VaultConfig struct {
	// Tracker overrides the global tracker kind for this vault.
	Tracker string `yaml:"tracker,omitempty"`

	// DefaultRepo is the "org/repo" pair seeded into notes created with
	// `msn new` when no repo is given.
	DefaultRepo string `yaml:"default_repo,omitempty"`

	// NotesDirectory is where `msn new` creates tracked notes
	// (default: vault root).
	NotesDirectory string `yaml:"notes_directory,omitempty"`

	// AutoSync overrides the global auto-sync setting for this vault.
	AutoSync *bool `yaml:"auto_sync,omitempty"`
}

// IsAutoSyncEnabled reports the vault's auto-sync setting, falling back to
// the global default when unset.
func (vc *VaultConfig) IsAutoSyncEnabled(globalDefault bool) bool {
	if vc.AutoSync == nil {
		return globalDefault
	}
	return *vc.AutoSync
}

// NotePath returns the vault-relative path for a new tracked note.
func (vc *VaultConfig) NotePath(name string) string {
	return filepath.Join(vc.NotesDirectory, name+".md")
}

// LoadVaultConfig loads vault configuration from mission.yaml.
// Returns a default config if the file doesn't exist.
func LoadVaultConfig(vaultPath string) (*VaultConfig, error) {
	configPath := filepath.Join(vaultPath, "mission.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &VaultConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault config %s: %w", configPath, err)
	}

	var config VaultConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse vault config %s: %w", configPath, err)
	}

	return &config, nil
}

// CreateDefaultVaultConfig creates a default mission.yaml file in the vault.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultVaultConfig(vaultPath string) (bool, error) {
	configPath := filepath.Join(vaultPath, "mission.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# Mission Vault Configuration
# These settings control vault-level behavior.

# Tracker kind for this vault (default: global config, then "github")
# tracker: github

# Repository seeded into notes created with 'msn new'
# default_repo: "org/repo"

# Directory for notes created with 'msn new' (default: vault root)
# notes_directory: missions

# Override global auto-sync for this vault
# auto_sync: true
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write vault config: %w", err)
	}

	return true, nil
}

// SaveVaultConfig writes the vault config back to mission.yaml.
func SaveVaultConfig(vaultPath string, cfg *VaultConfig) error {
	configPath := filepath.Join(vaultPath, "mission.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mission.yaml: %w", err)
	}

	return nil
}
