// Package config handles global Mission configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global Mission configuration.
type Config struct {
	// DefaultVault is the name of the default vault (from Vaults map).
	DefaultVault string `toml:"default_vault"`

	// StateFile overrides the state.toml location. Relative paths resolve
	// against the config file's directory.
	StateFile string `toml:"state_file"`

	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults"`

	// Editor is the editor to use for opening notes (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// Tracker configures the remote issue tracker connection.
	Tracker TrackerConfig `toml:"tracker"`

	// Sync configures automatic reconciliation.
	Sync SyncConfig `toml:"sync"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// TrackerConfig configures the remote issue tracker connection.
type TrackerConfig struct {
	// Kind selects the tracker implementation (default: "github").
	Kind string `toml:"kind"`

	// Token is the tracker access token. Prefer the MISSION_GITHUB_TOKEN
	// environment variable over storing it here.
	Token string `toml:"token"`

	// BaseURL overrides the tracker API endpoint (GitHub Enterprise).
	BaseURL string `toml:"base_url"`
}

// SyncConfig configures automatic reconciliation behavior.
type SyncConfig struct {
	// AutoSync enables reconciliation on file changes (default: true).
	AutoSync *bool `toml:"auto_sync"`

	// DebounceMS is the watcher settle delay in milliseconds (default: 100).
	DebounceMS int `toml:"debounce_ms"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering. ANSI color codes ("0" to "255") or hex ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme for rendered markdown.
	CodeTheme string `toml:"code_theme"`
}

// GetToken returns the tracker token, preferring environment variables
// over the config file.
func (c *Config) GetToken() string {
	if token := os.Getenv("MISSION_GITHUB_TOKEN"); token != "" {
		return token
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return c.Tracker.Token
}

// IsAutoSyncEnabled reports whether auto-sync is on (default: true).
func (c *Config) IsAutoSyncEnabled() bool {
	if c.Sync.AutoSync == nil {
		return true
	}
	return *c.Sync.AutoSync
}

// GetVaultPath returns the path for a named vault.
// If name is empty, returns the default vault path.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}

	if c.Vaults != nil {
		if path, ok := c.Vaults[name]; ok {
			return path, nil
		}
	}

	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}

	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// ListVaults returns all configured vaults with their paths.
func (c *Config) ListVaults() map[string]string {
	result := make(map[string]string)
	for name, path := range c.Vaults {
		result[name] = path
	}
	return result
}

// GetEditor returns the editor to use, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/mission/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "mission", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "mission", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/mission/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mission", "config.toml"), nil
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Mission Configuration
# See: https://github.com/aidanlsb/mission

# Default vault name (must exist in [vaults] below)
# default_vault = "personal"

# Named vaults
# [vaults]
# personal = "/path/to/your/notes"
# work = "/path/to/work/notes"

# Editor for opening notes (defaults to $EDITOR)
# editor = "code"

# Remote tracker connection. The token can also come from the
# MISSION_GITHUB_TOKEN or GITHUB_TOKEN environment variable.
# [tracker]
# kind = "github"
# token = ""
# base_url = ""

# Automatic reconciliation while 'msn sync' runs
# [sync]
# auto_sync = true
# debounce_ms = 100

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
