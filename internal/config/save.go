package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/mission/internal/atomicfile"
)

type persistedConfig struct {
	DefaultVault *string                 `toml:"default_vault,omitempty"`
	StateFile    *string                 `toml:"state_file,omitempty"`
	Vaults       map[string]string       `toml:"vaults,omitempty"`
	Editor       *string                 `toml:"editor,omitempty"`
	Tracker      *persistedTrackerConfig `toml:"tracker,omitempty"`
	Sync         *persistedSyncConfig    `toml:"sync,omitempty"`
	UI           *persistedUISettings    `toml:"ui,omitempty"`
}

type persistedTrackerConfig struct {
	Kind    *string `toml:"kind,omitempty"`
	Token   *string `toml:"token,omitempty"`
	BaseURL *string `toml:"base_url,omitempty"`
}

type persistedSyncConfig struct {
	AutoSync   *bool `toml:"auto_sync,omitempty"`
	DebounceMS *int  `toml:"debounce_ms,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultVault: nonEmptyPtr(cfg.DefaultVault),
		StateFile:    nonEmptyPtr(cfg.StateFile),
		Editor:       nonEmptyPtr(cfg.Editor),
	}
	if len(cfg.Vaults) > 0 {
		out.Vaults = cfg.Vaults
	}

	kind := nonEmptyPtr(cfg.Tracker.Kind)
	token := nonEmptyPtr(cfg.Tracker.Token)
	baseURL := nonEmptyPtr(cfg.Tracker.BaseURL)
	if kind != nil || token != nil || baseURL != nil {
		out.Tracker = &persistedTrackerConfig{
			Kind:    kind,
			Token:   token,
			BaseURL: baseURL,
		}
	}

	if cfg.Sync.AutoSync != nil || cfg.Sync.DebounceMS != 0 {
		sync := &persistedSyncConfig{AutoSync: cfg.Sync.AutoSync}
		if cfg.Sync.DebounceMS != 0 {
			debounce := cfg.Sync.DebounceMS
			sync.DebounceMS = &debounce
		}
		out.Sync = sync
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
