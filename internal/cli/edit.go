package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <note>",
	Short: "Open a note in your editor",
	Long: `Opens a note in the configured editor ('editor' in config.toml,
falling back to $EDITOR).

With 'msn sync' running, edits are reconciled as soon as the file is
saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notePath, err := resolveNotePath(args[0])
		if err != nil {
			return handleError(ErrNoteNotFound, err, "")
		}

		editor := getConfig().GetEditor()
		if editor == "" {
			return handleErrorMsg(ErrConfigInvalid, "no editor configured", "Set 'editor' in config.toml or the EDITOR environment variable")
		}

		c := exec.Command(editor, notePath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("editor exited with error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
