package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/ui"
	"github.com/aidanlsb/mission/internal/watcher"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Watch the vault and reconcile note changes with the tracker",
	Long: `Watches the vault for note changes and reconciles each settled edit
with the remote tracker.

The first change seen for a note establishes a baseline; subsequent
edits are diffed against it. New issue lines are created remotely and
get their id written back, removed lines close the remote issue as not
planned, and edited lines push field updates.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		autoSync := cfg.IsAutoSyncEnabled()

		sc, err := newSyncContext(autoSync)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer sc.Close()

		autoSync = sc.vaultCfg.IsAutoSyncEnabled(autoSync)
		if !autoSync {
			return handleErrorMsg(ErrConfigInvalid, "auto-sync is disabled in config", "Enable sync.auto_sync in config.toml or auto_sync in mission.yaml, or use 'msn push' for one-shot syncs")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		debounce := time.Duration(cfg.Sync.DebounceMS) * time.Millisecond

		w, err := watcher.New(watcher.Config{
			VaultPath:     getVaultPath(),
			DebounceDelay: debounce,
			Debug:         debugFlag,
			OnChange: func(path string) {
				if err := sc.reconciler.HandleChange(ctx, path); err != nil {
					fmt.Fprintln(os.Stderr, ui.Errorf("sync failed for %s: %v", path, err))
				}
			},
		})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		fmt.Println(ui.Infof("Watching %s", ui.FilePath(getVaultPath())))

		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			return handleError(ErrInternal, err, "")
		}

		fmt.Println(ui.Info("Sync stopped"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
