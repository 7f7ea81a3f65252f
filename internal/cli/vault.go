package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/config"
)

type vaultContext struct {
	cfg        *config.Config
	state      *config.State
	configPath string
	statePath  string
}

type vaultRow struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}

var (
	vaultAddReplace bool
	vaultAddPin     bool
)

func loadVaultContext() (*vaultContext, error) {
	loadedCfg, resolvedConfigPath, err := loadGlobalConfigWithPath()
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	resolvedStatePath := config.ResolveStatePath(statePathFlag, resolvedConfigPath, loadedCfg)
	state, err := config.LoadState(resolvedStatePath)
	if err != nil {
		return nil, err
	}

	return &vaultContext{
		cfg:        loadedCfg,
		state:      state,
		configPath: resolvedConfigPath,
		statePath:  resolvedStatePath,
	}, nil
}

func vaultRows(cfg *config.Config, state *config.State) ([]vaultRow, string, string, bool) {
	vaults := cfg.ListVaults()
	defaultName := strings.TrimSpace(cfg.DefaultVault)
	activeName := ""
	if state != nil {
		activeName = strings.TrimSpace(state.ActiveVault)
	}

	names := make([]string, 0, len(vaults))
	for name := range vaults {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]vaultRow, 0, len(vaults))
	activeMissing := activeName != ""
	for _, name := range names {
		rows = append(rows, vaultRow{
			Name:      name,
			Path:      vaults[name],
			IsDefault: name == defaultName,
			IsActive:  name == activeName,
		})
		if name == activeName {
			activeMissing = false
		}
	}

	return rows, defaultName, activeName, activeMissing
}

func runVaultList(cmd *cobra.Command, args []string) error {
	ctx, err := loadVaultContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	rows, defaultName, activeName, activeMissing := vaultRows(ctx.cfg, ctx.state)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":    ctx.configPath,
			"state_path":     ctx.statePath,
			"default_vault":  defaultName,
			"active_vault":   activeName,
			"active_missing": activeMissing,
			"vaults":         rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No vaults configured.")
		fmt.Printf("Config: %s\n", ctx.configPath)
		fmt.Println()
		fmt.Println("Add vaults to config.toml:")
		fmt.Println()
		fmt.Println("  default_vault = \"personal\"")
		fmt.Println()
		fmt.Println("  [vaults]")
		fmt.Println("  personal = \"/path/to/your/notes\"")
		return nil
	}

	for _, row := range rows {
		prefix := "  "
		if row.IsActive && row.IsDefault {
			prefix = ">*"
		} else if row.IsActive {
			prefix = "> "
		} else if row.IsDefault {
			prefix = " *"
		}
		fmt.Printf("%s %-12s -> %s\n", prefix, row.Name, row.Path)
	}

	fmt.Println()
	fmt.Println("> = active vault (state)")
	fmt.Println("* = default vault (config)")
	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("state:  %s\n", ctx.statePath)
	if activeMissing {
		fmt.Printf("warning: active vault '%s' in state is not configured\n", activeName)
	}

	return nil
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage configured vaults and active selection",
	Long: `Manage configured vaults and active selection.

The active vault is stored in state.toml.
The default vault is stored in config.toml and used as fallback.`,
	Args: cobra.NoArgs,
	RunE: runVaultList,
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured vaults",
	Args:  cobra.NoArgs,
	RunE:  runVaultList,
}

var vaultUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active vault in state.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadVaultContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetVaultPath(name)
		if err != nil {
			return handleError(ErrVaultNotFound, err, "Run 'msn vault list' to see configured vaults")
		}

		ctx.state.ActiveVault = name
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_vault": name,
				"path":         path,
				"state_path":   ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Printf("Active vault set to '%s' -> %s\n", name, path)
		fmt.Printf("state: %s\n", ctx.statePath)
		return nil
	},
}

var vaultClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear active vault from state.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadVaultContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		prev := strings.TrimSpace(ctx.state.ActiveVault)
		ctx.state.ActiveVault = ""
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"cleared":    true,
				"previous":   prev,
				"state_path": ctx.statePath,
			}, nil)
			return nil
		}

		if prev == "" {
			fmt.Println("Active vault already clear.")
		} else {
			fmt.Printf("Cleared active vault '%s'.\n", prev)
		}
		fmt.Printf("state: %s\n", ctx.statePath)
		return nil
	},
}

var vaultPinCmd = &cobra.Command{
	Use:   "pin <name>",
	Short: "Set default_vault in config.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadVaultContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetVaultPath(name)
		if err != nil {
			return handleError(ErrVaultNotFound, err, "Run 'msn vault list' to see configured vaults")
		}

		ctx.cfg.DefaultVault = name
		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default_vault": name,
				"path":          path,
				"config_path":   ctx.configPath,
			}, nil)
			return nil
		}

		fmt.Printf("Default vault set to '%s' -> %s\n", name, path)
		fmt.Printf("config: %s\n", ctx.configPath)
		return nil
	},
}

var vaultAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a vault to config.toml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		rawPath := strings.TrimSpace(args[1])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "vault name is required", "")
		}
		if rawPath == "" {
			return handleErrorMsg(ErrMissingArgument, "vault path is required", "")
		}

		ctx, err := loadVaultContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		absPath, err := filepath.Abs(rawPath)
		if err != nil {
			return handleError(ErrInvalidInput, fmt.Errorf("failed to resolve vault path: %w", err), "")
		}

		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrVaultNotFound, fmt.Sprintf("vault path does not exist: %s", absPath), "Run 'msn init "+absPath+"' to create it first")
			}
			return handleError(ErrFileReadError, err, "")
		}
		if !info.IsDir() {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("vault path must be a directory: %s", absPath), "")
		}

		if ctx.cfg.Vaults == nil {
			ctx.cfg.Vaults = make(map[string]string)
		}

		prevPath, existed := ctx.cfg.Vaults[name]
		if existed && !vaultAddReplace {
			return handleErrorMsg(ErrDuplicateName, fmt.Sprintf("vault '%s' already exists", name), "Use --replace to update the path")
		}

		ctx.cfg.Vaults[name] = absPath
		if vaultAddPin {
			ctx.cfg.DefaultVault = name
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":          name,
				"path":          absPath,
				"config_path":   ctx.configPath,
				"replaced":      existed,
				"previous_path": prevPath,
				"pinned":        vaultAddPin,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Updated vault '%s' -> %s\n", name, absPath)
		} else {
			fmt.Printf("Added vault '%s' -> %s\n", name, absPath)
		}
		if vaultAddPin {
			fmt.Printf("Default vault set to '%s'.\n", name)
		}
		fmt.Printf("config: %s\n", ctx.configPath)
		return nil
	},
}

func init() {
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultUseCmd)
	vaultCmd.AddCommand(vaultPinCmd)
	vaultCmd.AddCommand(vaultClearCmd)
	vaultCmd.AddCommand(vaultAddCmd)

	vaultAddCmd.Flags().BoolVar(&vaultAddReplace, "replace", false, "Replace existing vault path if name already exists")
	vaultAddCmd.Flags().BoolVar(&vaultAddPin, "pin", false, "Also set this vault as default_vault")

	rootCmd.AddCommand(vaultCmd)
}
