package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show entities synced from this vault",
	Long: `Lists the entities the reconciler has synced, most recent first.

The listing comes from the vault's local sync ledger; it reflects the
last state each entity was pushed or pulled in, not the live tracker.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := newSyncContext(false)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer sc.Close()

		entities, err := sc.ledger.List()
		if err != nil {
			return handleError(ErrLedgerError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(entities, &Meta{Count: len(entities)})
			return nil
		}

		if len(entities) == 0 {
			fmt.Println("Nothing synced yet.")
			fmt.Println(ui.Hint("Run 'msn sync' or 'msn push <note>' to start"))
			return nil
		}

		table := ui.NewTable(5)
		table.AddRow("KIND", "ID", "STATUS", "TITLE", "SYNCED")
		for _, e := range entities {
			table.AddRow(e.Kind, e.ID, e.Status, e.Title, humanizeSince(e.SyncedAt))
		}
		fmt.Print(table.String())
		fmt.Println()
		fmt.Println(ui.Hint(ui.Count(len(entities), "entity", "entities")))
		return nil
	},
}

// humanizeSince renders a sync timestamp as a rough age.
func humanizeSince(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
