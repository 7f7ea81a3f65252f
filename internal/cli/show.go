package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/note"
	"github.com/aidanlsb/mission/internal/ui"
	"github.com/aidanlsb/mission/internal/vault"
)

var showRawFlag bool

var showCmd = &cobra.Command{
	Use:   "show <note>",
	Short: "Display a note with its tracked state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notePath, err := resolveNotePath(args[0])
		if err != nil {
			return handleError(ErrNoteNotFound, err, "")
		}

		store := vault.NewDirStore(getVaultPath())
		text, err := store.Read(notePath)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		snap := note.Parse(text)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"note":    notePath,
				"type":    snap.Type,
				"id":      snap.ID,
				"title":   snap.Title,
				"tracker": snap.Tracker,
				"repo":    snap.Repo,
				"issues":  snap.Issues,
			}, &Meta{Count: len(snap.Issues)})
			return nil
		}

		if snap.Type != "" {
			header := fmt.Sprintf("%s %s", snap.Type, snap.Title)
			if snap.ID != "" {
				header += fmt.Sprintf(" (%s)", ui.EntityID(snap.ID))
			}
			fmt.Println(ui.Header(header))
			if snap.Repo != nil {
				fmt.Println(ui.Hint(fmt.Sprintf("repo: %s/%s", snap.Repo.Org, snap.Repo.Name)))
			}
			fmt.Println()
		}

		display := ui.NewDisplayContext()
		if showRawFlag || !display.IsTTY {
			fmt.Print(text)
			return nil
		}

		rendered, err := ui.RenderMarkdown(text, display.TermWidth)
		if err != nil {
			fmt.Print(text)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRawFlag, "raw", false, "Print raw markdown without rendering")
	rootCmd.AddCommand(showCmd)
}
