package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/ui"
)

var pullCmd = &cobra.Command{
	Use:   "pull <note>",
	Short: "Rewrite a note's Issues section from the tracker",
	Long: `Fetches the full issue list for the note's tracked milestone or
project and rewrites the "## Issues" section from it. Other sections of
the note are untouched.

The note must track an entity: mission.type and mission.id set in front
matter.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notePath, err := resolveNotePath(args[0])
		if err != nil {
			return handleError(ErrNoteNotFound, err, "")
		}

		sc, err := newSyncContext(false)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer sc.Close()

		spinner := ui.NewSpinner("Fetching from tracker")
		spinner.Start()
		err = sc.reconciler.Pull(cmd.Context(), notePath)
		spinner.Stop()

		if err != nil {
			return handlePushError(notePath, err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"note": notePath, "pulled": true}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated issues in %s", ui.FilePath(notePath)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
