package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/mission/internal/config"
	"github.com/aidanlsb/mission/internal/index"
	"github.com/aidanlsb/mission/internal/paths"
	"github.com/aidanlsb/mission/internal/reconcile"
	"github.com/aidanlsb/mission/internal/ui"
	"github.com/aidanlsb/mission/internal/vault"

	// Tracker implementations register themselves with the tracker
	// registry on import.
	_ "github.com/aidanlsb/mission/internal/tracker/github"
)

// syncContext bundles everything a sync-related command needs.
type syncContext struct {
	store      *vault.DirStore
	vaultCfg   *config.VaultConfig
	reconciler *reconcile.Reconciler
	ledger     *index.Database
}

// Close releases the ledger handle.
func (s *syncContext) Close() {
	if s.ledger != nil {
		_ = s.ledger.Close()
	}
}

// newSyncContext builds the reconciler stack for the resolved vault.
// autoSync controls whether change notifications reconcile; explicit
// push/pull commands work either way.
func newSyncContext(autoSync bool) (*syncContext, error) {
	vaultPath := getVaultPath()

	vaultCfg, err := config.LoadVaultConfig(vaultPath)
	if err != nil {
		return nil, err
	}

	ledger, err := index.Open(vaultPath)
	if err != nil {
		return nil, err
	}

	store := vault.NewDirStore(vaultPath)
	kind := vaultCfg.Tracker
	if kind == "" {
		kind = cfg.Tracker.Kind
	}

	reconciler := reconcile.New(reconcile.Options{
		Store:       store,
		VaultPath:   vaultPath,
		TrackerKind: kind,
		Token:       cfg.GetToken(),
		BaseURL:     cfg.Tracker.BaseURL,
		AutoSync:    autoSync,
		Ledger:      ledger,
		Debug:       debugFlag,
		OnNotice: func(msg string) {
			fmt.Println(ui.Warning(msg))
		},
	})

	return &syncContext{
		store:      store,
		vaultCfg:   vaultCfg,
		reconciler: reconciler,
		ledger:     ledger,
	}, nil
}

// resolveNotePath resolves a note argument to an absolute path inside the
// vault. Accepts vault-relative paths, absolute paths, and bare names
// without the .md extension.
func resolveNotePath(arg string) (string, error) {
	name := strings.TrimSpace(arg)
	if name == "" {
		return "", fmt.Errorf("note path is required")
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}

	vaultPath := getVaultPath()
	abs := name
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(vaultPath, name)
	}

	if err := paths.ValidateWithinVault(vaultPath, abs); err != nil {
		return "", err
	}

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return "", fmt.Errorf("note not found: %s", name)
	}

	return abs, nil
}
