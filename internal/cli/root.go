// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/config"
	"github.com/aidanlsb/mission/internal/ui"
)

var (
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path (rare)
	configPath    string
	statePathFlag string
	debugFlag     bool

	// Resolved values
	resolvedVaultPath  string
	resolvedConfigPath string
	resolvedStatePath  string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "msn",
	Short: "Mission - sync markdown mission notes with your issue tracker",
	Long: `Mission keeps markdown notes and a remote issue tracker in sync.

A note tracks a milestone or project through mission.* front matter keys,
and lists its issues under an "## Issues" heading. Edit the note and
Mission pushes the changes; pull and Mission rewrites the list from the
tracker. Plain-text markdown stays the source of truth.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip vault resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "vault", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "vault") {
			return nil
		}

		// Load config
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
		ui.ConfigureTheme(cfg.UI.Accent, cfg.UI.CodeTheme)

		// Resolve vault path: explicit path > named vault > active state > default
		if vaultPathFlag != "" {
			resolvedVaultPath = vaultPathFlag
		} else if vaultName != "" {
			resolvedVaultPath, err = cfg.GetVaultPath(vaultName)
			if err != nil {
				return fmt.Errorf("vault '%s' not found\n\nRun 'msn vault list' to see configured vaults", vaultName)
			}
		} else {
			state, stateErr := config.LoadState(resolvedStatePath)
			if stateErr != nil {
				return fmt.Errorf("failed to load state: %w", stateErr)
			}

			activeVaultName := strings.TrimSpace(state.ActiveVault)
			if activeVaultName != "" {
				resolvedVaultPath, err = cfg.GetVaultPath(activeVaultName)
				if err != nil {
					resolvedVaultPath, err = cfg.GetVaultPath("")
					if err != nil {
						return fmt.Errorf("active vault '%s' not found in config and no default vault configured\n\nRun 'msn vault use <name>' or set default_vault in config.toml", activeVaultName)
					}
					if !jsonOutput {
						fmt.Fprintf(os.Stderr, "warning: active vault '%s' not found in config, falling back to default\n", activeVaultName)
					}
				}
			} else {
				resolvedVaultPath, err = cfg.GetVaultPath("")
				if err != nil {
					return fmt.Errorf(`no vault specified

Either:
  1. Use --vault <name> (from config)
  2. Use --vault-path /path/to/vault
  3. Run 'msn vault use <name>' to set active_vault in state.toml
  4. Set default_vault in ~/.config/mission/config.toml
  5. Run 'msn init /path/to/new/vault' to create one`)
				}
			}
		}

		// Verify vault exists
		if _, err := os.Stat(resolvedVaultPath); os.IsNotExist(err) {
			return fmt.Errorf("vault not found: %s\n\nRun 'msn init %s' to create it", resolvedVaultPath, resolvedVaultPath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
