package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mission/internal/note"
	"github.com/aidanlsb/mission/internal/notetext"
	"github.com/aidanlsb/mission/internal/slugs"
	"github.com/aidanlsb/mission/internal/tracker"
	"github.com/aidanlsb/mission/internal/ui"
)

var (
	newRepoFlag   string
	newFromRemote bool
)

var newCmd = &cobra.Command{
	Use:   "new <milestone|project> <title>",
	Short: "Create a tracked note",
	Long: `Creates a markdown note that tracks a milestone or project.

The note starts with mission.type, mission.title, and mission.repo front
matter plus an empty "## Issues" section. The remote entity is linked or
created on the first push or sync.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(strings.TrimSpace(args[0]))
		title := strings.TrimSpace(args[1])

		if kind != string(note.TypeMilestone) && kind != string(note.TypeProject) {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown note type %q (expected milestone or project)", kind), "")
		}
		if title == "" {
			return handleErrorMsg(ErrMissingArgument, "title is required", "")
		}

		sc, err := newSyncContext(false)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer sc.Close()

		repo := strings.TrimSpace(newRepoFlag)
		if repo == "" {
			repo = sc.vaultCfg.DefaultRepo
		}
		if repo == "" {
			repo = note.PlaceholderRepo
		}

		relPath := sc.vaultCfg.NotePath(slugs.NoteSlug(title))
		absPath, err := sc.store.Abs(relPath)
		if err != nil {
			return handleError(ErrNoteOutsideVault, err, "")
		}
		if _, err := os.Stat(absPath); err == nil {
			return handleErrorMsg(ErrNoteExists, fmt.Sprintf("note already exists: %s", relPath), "")
		}

		props := map[string]string{
			note.PropType:  kind,
			note.PropTitle: title,
			note.PropRepo:  repo,
		}

		if newFromRemote {
			id, err := fetchRemoteID(cmd, sc, kind, title, repo)
			if err != nil {
				return err
			}
			props[note.PropID] = id
		}

		body := fmt.Sprintf("# %s\n\n## Issues\n", title)
		text, err := notetext.WriteProperties(body, props)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if err := sc.store.Write(relPath, text); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"note":  relPath,
				"type":  kind,
				"title": title,
				"repo":  repo,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Created %s", ui.FilePath(relPath)))
		if repo == note.PlaceholderRepo {
			fmt.Println(ui.Hint("Set mission.repo before syncing"))
		} else {
			fmt.Println(ui.Hint(fmt.Sprintf("Run 'msn push %s' to link the remote %s", relPath, kind)))
		}
		return nil
	},
}

// fetchRemoteID resolves an existing remote milestone or project by exact
// title and returns its id, so the new note adopts it instead of creating
// a duplicate on the first push.
func fetchRemoteID(cmd *cobra.Command, sc *syncContext, kind, title, repoValue string) (string, error) {
	parsed, ok := note.ParseRepo(repoValue)
	if !ok {
		return "", handleErrorMsg(ErrTrackerNoRepo, "--from-remote needs a repository", "Pass --repo org/repo or set default_repo in mission.yaml")
	}
	token := cfg.GetToken()
	if token == "" {
		return "", handleErrorMsg(ErrTrackerNoToken, "no access token configured", "Set MISSION_GITHUB_TOKEN or tracker.token in config.toml")
	}

	trackerKind := sc.vaultCfg.Tracker
	if trackerKind == "" {
		trackerKind = cfg.Tracker.Kind
	}
	repo, err := tracker.Open(trackerKind, tracker.Config{
		Token:   token,
		BaseURL: cfg.Tracker.BaseURL,
		Owner:   parsed.Org,
		Repo:    parsed.Name,
	})
	if err != nil {
		return "", handleError(ErrTrackerFailed, err, "")
	}

	switch kind {
	case string(note.TypeMilestone):
		m, err := repo.FetchMilestoneByTitle(cmd.Context(), title)
		if err != nil {
			return "", handleError(ErrTrackerFailed, err, "")
		}
		if m == nil {
			return "", handleErrorMsg(ErrInvalidInput, fmt.Sprintf("no remote milestone titled %q in %s", title, repoValue), "")
		}
		return m.ID, nil
	default:
		p, err := repo.FetchProjectByTitle(cmd.Context(), title)
		if err != nil {
			return "", handleError(ErrTrackerFailed, err, "")
		}
		if p == nil {
			return "", handleErrorMsg(ErrInvalidInput, fmt.Sprintf("no remote project titled %q in %s", title, repoValue), "")
		}
		return p.ID, nil
	}
}

func init() {
	newCmd.Flags().StringVar(&newRepoFlag, "repo", "", "Repository as org/repo (default: mission.yaml default_repo)")
	newCmd.Flags().BoolVar(&newFromRemote, "from-remote", false, "Adopt an existing remote entity with this title")
	rootCmd.AddCommand(newCmd)
}
