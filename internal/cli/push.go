package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/reconcile"
	"github.com/aidanlsb/mission/internal/tracker"
	"github.com/aidanlsb/mission/internal/ui"
)

var pushCmd = &cobra.Command{
	Use:   "push <note>",
	Short: "Reconcile a note with the tracker now",
	Long: `Reconciles one note with the remote tracker immediately, without
watching. With no prior baseline for the note, every id-less issue line
is created remotely and annotated with its id; nothing is removed or
updated.`,
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

		spinner := ui.NewSpinner("Pushing to tracker")
		spinner.Start()
		err = sc.reconciler.Push(cmd.Context(), notePath)
		spinner.Stop()

		if err != nil {
			return handlePushError(notePath, err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"note": notePath, "pushed": true}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Pushed %s", ui.FilePath(notePath)))
		return nil
	},
}

func handlePushError(notePath string, err error) error {
	switch {
	case errors.Is(err, tracker.ErrMissingToken):
		return handleError(ErrTrackerNoToken, err, "Set MISSION_GITHUB_TOKEN or tracker.token in config.toml")
	case errors.Is(err, reconcile.ErrRepoNotConfigured):
		return handleError(ErrTrackerNoRepo, fmt.Errorf("%s: %w", notePath, err), "Set mission.repo in the note's front matter")
	case errors.Is(err, reconcile.ErrNotTracked):
		return handleError(ErrNoteNotTracked, fmt.Errorf("%s: %w", notePath, err), "Set mission.type and mission.id in the note's front matter")
	default:
		return handleError(ErrTrackerFailed, err, "")
	}
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
