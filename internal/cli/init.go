package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new vault",
	Long: `Creates a new vault at the specified path with default configuration files.

Creates:
  - mission.yaml  (vault configuration)
  - .mission/     (sync ledger directory)
  - .gitignore    (ignores derived files)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		fmt.Printf("Initializing vault at: %s\n", path)

		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}

		missionDir := filepath.Join(path, ".mission")
		if err := os.MkdirAll(missionDir, 0755); err != nil {
			return fmt.Errorf("failed to create .mission directory: %w", err)
		}

		// Ensure .gitignore covers derived files
		gitignorePath := filepath.Join(path, ".gitignore")
		gitignoreStatus := "created"
		gitignoreEntries := []string{".mission/", ".trash/"}

		existingContent := ""
		if data, err := os.ReadFile(gitignorePath); err == nil {
			existingContent = string(data)
		}

		var missingEntries []string
		for _, entry := range gitignoreEntries {
			if !strings.Contains(existingContent, entry) {
				missingEntries = append(missingEntries, entry)
			}
		}

		if len(missingEntries) > 0 {
			var newContent string
			if existingContent == "" {
				newContent = `# Mission (auto-generated)
# These are derived files - your markdown is the source of truth

# Sync ledger
.mission/

# Trashed files
.trash/
`
			} else {
				gitignoreStatus = "updated"
				addition := "\n# Mission\n"
				for _, entry := range missingEntries {
					addition += entry + "\n"
				}
				newContent = strings.TrimRight(existingContent, "\n") + "\n" + addition
			}
			if err := os.WriteFile(gitignorePath, []byte(newContent), 0644); err != nil {
				return fmt.Errorf("failed to write .gitignore: %w", err)
			}
		} else if existingContent != "" {
			gitignoreStatus = "already has Mission entries"
		}

		createdConfig, err := config.CreateDefaultVaultConfig(path)
		if err != nil {
			return fmt.Errorf("failed to create mission.yaml: %w", err)
		}

		if createdConfig {
			fmt.Println("✓ Created mission.yaml (vault configuration)")
		} else {
			fmt.Println("• mission.yaml already exists (kept)")
		}

		fmt.Println("✓ Ensured .mission/ directory exists")

		switch gitignoreStatus {
		case "created":
			fmt.Println("✓ Created .gitignore")
		case "updated":
			fmt.Println("✓ Updated .gitignore (added Mission entries)")
		default:
			fmt.Println("• .gitignore already has Mission entries")
		}

		if createdConfig {
			fmt.Println("\nVault initialized! Run 'msn new milestone <title>' to create a tracked note.")
		} else {
			fmt.Println("\nExisting vault detected. Configuration preserved.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
