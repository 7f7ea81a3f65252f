package reconcile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aidanlsb/mission/internal/entity"
	"github.com/aidanlsb/mission/internal/note"
	"github.com/aidanlsb/mission/internal/testutil"
	"github.com/aidanlsb/mission/internal/tracker"
	"github.com/aidanlsb/mission/internal/vault"
)

type testEnv struct {
	vault *testutil.TestVault
	repo  *fakeRepo
	rec   *Reconciler

	mu      sync.Mutex
	notices []string
}

func newTestEnv(t *testing.T, opts ...func(*Options)) *testEnv {
	t.Helper()

	env := &testEnv{
		vault: testutil.NewTestVault(t).Build(),
		repo:  newFakeRepo(),
	}

	options := Options{
		Store:       vault.NewDirStore(env.vault.Path),
		VaultPath:   env.vault.Path,
		TrackerKind: "github",
		Token:       "test-token",
		AutoSync:    true,
		Open:        env.repo.opener(),
		OnNotice: func(msg string) {
			env.mu.Lock()
			env.notices = append(env.notices, msg)
			env.mu.Unlock()
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	env.rec = New(options)
	return env
}

func (env *testEnv) handleChange(t *testing.T, path string) {
	t.Helper()
	if err := env.rec.HandleChange(context.Background(), path); err != nil {
		t.Fatalf("HandleChange(%s): %v", path, err)
	}
}

func TestHandleChangeEstablishesBaseline(t *testing.T) {
	env := newTestEnv(t)
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] Something\n")

	// The first observation only caches; the id-less issue must not be
	// created from text that predates the baseline.
	env.handleChange(t, "tasks.md")
	env.handleChange(t, "tasks.md")

	if len(env.repo.createdIssues) != 0 {
		t.Errorf("created %v, want none", env.repo.createdIssues)
	}
}

func TestHandleChangeCreatesIssue(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seedIssue(entity.Issue{ID: "40", Title: "Existing thing", Status: entity.StatusOpen})
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n# Tasks\n\n## Issues\n\n- [ ] Existing thing (40)\n")

	env.handleChange(t, "tasks.md")
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n# Tasks\n\n## Issues\n\n- [ ] Existing thing (40)\n- [ ] Brand new\n")
	env.handleChange(t, "tasks.md")

	if got := env.repo.createdIssues; len(got) != 1 || got[0] != "Brand new" {
		t.Fatalf("created %v, want [Brand new]", got)
	}
	if text := env.vault.ReadFile("tasks.md"); !strings.Contains(text, "- [ ] Brand new (1)") {
		t.Errorf("id not written back:\n%s", text)
	}

	// The self-write lands as a change event; it must re-baseline without
	// creating the issue a second time.
	env.handleChange(t, "tasks.md")
	env.handleChange(t, "tasks.md")

	if len(env.repo.createdIssues) != 1 {
		t.Errorf("created %v after self-write, want one create", env.repo.createdIssues)
	}
	if len(env.repo.updatedIssues) != 0 || len(env.repo.hiddenIssues) != 0 {
		t.Errorf("unexpected remote calls: updated %v hidden %v", env.repo.updatedIssues, env.repo.hiddenIssues)
	}
}

func TestHandleChangeAdoptsIssueByTitle(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seedIssue(entity.Issue{ID: "77", Title: "Fix login", Status: entity.StatusOpen})
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n")

	env.handleChange(t, "tasks.md")
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] Fix login\n")
	env.handleChange(t, "tasks.md")

	if len(env.repo.createdIssues) != 0 {
		t.Errorf("created %v, want adoption without create", env.repo.createdIssues)
	}
	if text := env.vault.ReadFile("tasks.md"); !strings.Contains(text, "- [ ] Fix login (77)") {
		t.Errorf("adopted id not written back:\n%s", text)
	}
}

func TestHandleChangeHidesRemovedIssue(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seedIssue(entity.Issue{ID: "5", Title: "Old task", Status: entity.StatusOpen})
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] Old task (5)\n")

	env.handleChange(t, "tasks.md")
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n")
	env.handleChange(t, "tasks.md")

	if got := env.repo.hiddenIssues; len(got) != 1 || got[0] != "5" {
		t.Fatalf("hidden %v, want [5]", got)
	}
	if len(env.repo.createdIssues) != 0 || len(env.repo.updatedIssues) != 0 {
		t.Errorf("removal must only hide: created %v updated %v", env.repo.createdIssues, env.repo.updatedIssues)
	}

	// A repeat event for the same text must not hide again.
	env.handleChange(t, "tasks.md")
	if len(env.repo.hiddenIssues) != 1 {
		t.Errorf("hidden %v, want exactly one hide", env.repo.hiddenIssues)
	}
}

func TestHandleChangeUpdatesCheckedIssue(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seedIssue(entity.Issue{ID: "5", Title: "Task", Status: entity.StatusOpen})
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] Task (5)\n")

	env.handleChange(t, "tasks.md")
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [x] Task (5)\n")
	env.handleChange(t, "tasks.md")

	if got := env.repo.updatedIssues; len(got) != 1 || got[0] != "5" {
		t.Fatalf("updated %v, want [5]", got)
	}
	if got := env.repo.issues["5"].Status; got != entity.StatusClosed {
		t.Errorf("remote status = %q, want closed", got)
	}
}

func TestHandleChangeWritesRepoPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.title: Launch\n---\n\n# Launch\n")

	env.handleChange(t, "launch.md")
	env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.title: Launch\n---\n\n# Launch\n\nNew body text.\n")
	env.handleChange(t, "launch.md")

	if text := env.vault.ReadFile("launch.md"); !strings.Contains(text, note.PropRepo+": "+note.PlaceholderRepo) {
		t.Errorf("placeholder not written:\n%s", text)
	}
	if len(env.notices) == 0 {
		t.Error("expected a repo guidance notice")
	}
	if len(env.repo.createdIssues)+len(env.repo.createdMilestones) != 0 {
		t.Error("tracked note without repo must not reach the remote")
	}
}

func TestHandleChangeSkips(t *testing.T) {
	t.Run("non-note and ignored paths", func(t *testing.T) {
		env := newTestEnv(t)
		// Neither file exists; a read attempt would fail loudly.
		env.handleChange(t, "notes.txt")
		env.handleChange(t, ".mission/tmp.md")
	})

	t.Run("auto-sync disabled", func(t *testing.T) {
		env := newTestEnv(t, func(o *Options) { o.AutoSync = false })
		env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n")
		env.handleChange(t, "tasks.md")
		env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] New\n")
		env.handleChange(t, "tasks.md")

		if len(env.repo.createdIssues) != 0 {
			t.Errorf("created %v with auto-sync off", env.repo.createdIssues)
		}
	})
}

func TestPushCreatesWithoutBaseline(t *testing.T) {
	env := newTestEnv(t)
	env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] Resolved already (9)\n- [ ] Needs creating\n")

	if err := env.rec.Push(context.Background(), "tasks.md"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := env.repo.createdIssues; len(got) != 1 || got[0] != "Needs creating" {
		t.Fatalf("created %v, want [Needs creating]", got)
	}
	if len(env.repo.updatedIssues) != 0 || len(env.repo.hiddenIssues) != 0 {
		t.Errorf("push without baseline must only create: updated %v hidden %v", env.repo.updatedIssues, env.repo.hiddenIssues)
	}
	if text := env.vault.ReadFile("tasks.md"); !strings.Contains(text, "- [ ] Needs creating (1)") {
		t.Errorf("id not written back:\n%s", text)
	}
}

func TestPushErrors(t *testing.T) {
	t.Run("tracked note without repo", func(t *testing.T) {
		env := newTestEnv(t)
		env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.title: Launch\n---\n")

		err := env.rec.Push(context.Background(), "launch.md")
		if !errors.Is(err, ErrRepoNotConfigured) {
			t.Errorf("got %v, want ErrRepoNotConfigured", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t, func(o *Options) { o.Token = "" })
		env.vault.WriteFile("tasks.md", "---\nmission.repo: acme/api\n---\n\n## Issues\n\n- [ ] New\n")

		err := env.rec.Push(context.Background(), "tasks.md")
		if !errors.Is(err, tracker.ErrMissingToken) {
			t.Errorf("got %v, want ErrMissingToken", err)
		}
	})
}

func TestPushLinksMilestone(t *testing.T) {
	t.Run("creates when absent remotely", func(t *testing.T) {
		env := newTestEnv(t)
		env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.title: Launch\nmission.repo: acme/api\n---\n\nShip the onboarding flow.\n")

		if err := env.rec.Push(context.Background(), "launch.md"); err != nil {
			t.Fatalf("Push: %v", err)
		}

		if got := env.repo.createdMilestones; len(got) != 1 || got[0] != "Launch" {
			t.Fatalf("created milestones %v, want [Launch]", got)
		}
		snap := note.Parse(env.vault.ReadFile("launch.md"))
		if snap.Type != note.TypeMilestone || snap.ID != "1" || snap.Title != "Launch" {
			t.Errorf("written-back snapshot = %+v", snap)
		}
	})

	t.Run("keeps an already-resolved id", func(t *testing.T) {
		env := newTestEnv(t)
		// The remote milestone with this title has a different id; the
		// note's own id must win over title resolution.
		env.repo.seedMilestone(entity.Milestone{ID: "8", Title: "Launch", Status: entity.StatusOpen})
		env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.id: \"50\"\nmission.title: Launch\nmission.repo: acme/api\n---\n")

		if err := env.rec.Push(context.Background(), "launch.md"); err != nil {
			t.Fatalf("Push: %v", err)
		}

		if len(env.repo.createdMilestones) != 0 {
			t.Errorf("created %v, want none", env.repo.createdMilestones)
		}
		if snap := note.Parse(env.vault.ReadFile("launch.md")); snap.ID != "50" {
			t.Errorf("id = %q, want the note's own 50", snap.ID)
		}
	})

	t.Run("adopts matching title", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.seedMilestone(entity.Milestone{ID: "50", Title: "Launch", Status: entity.StatusOpen, Description: "Planned work."})
		env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.title: Launch\nmission.repo: acme/api\n---\n")

		if err := env.rec.Push(context.Background(), "launch.md"); err != nil {
			t.Fatalf("Push: %v", err)
		}

		if len(env.repo.createdMilestones) != 0 {
			t.Errorf("created %v, want adoption without create", env.repo.createdMilestones)
		}
		text := env.vault.ReadFile("launch.md")
		snap := note.Parse(text)
		if snap.ID != "50" {
			t.Errorf("adopted id = %q, want 50:\n%s", snap.ID, text)
		}
		if !strings.Contains(text, "Planned work.") {
			t.Errorf("remote description not written back:\n%s", text)
		}
	})
}

func TestPullRewritesIssuesSection(t *testing.T) {
	env := newTestEnv(t)
	env.repo.seedIssue(entity.Issue{ID: "2", Title: "Two", Status: entity.StatusOpen, MilestoneID: "5"})
	env.repo.seedIssue(entity.Issue{ID: "10", Title: "Ten", Status: entity.StatusOpen, MilestoneID: "5"})
	env.repo.seedIssue(entity.Issue{ID: "3", Title: "Three", Status: entity.StatusClosed, StatusReason: entity.ReasonCompleted, MilestoneID: "5"})
	env.repo.seedIssue(entity.Issue{ID: "4", Title: "Hidden", Status: entity.StatusClosed, StatusReason: entity.ReasonNotPlanned, MilestoneID: "5"})
	env.repo.seedIssue(entity.Issue{ID: "9", Title: "Elsewhere", Status: entity.StatusOpen, MilestoneID: "6"})
	env.vault.WriteFile("launch.md", "---\nmission.type: milestone\nmission.id: \"5\"\nmission.repo: acme/api\n---\n\n# Launch\n\n## Issues\n\n- [ ] Stale local line\n")

	if err := env.rec.Pull(context.Background(), "launch.md"); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	issues := note.ParseIssues(env.vault.ReadFile("launch.md"))
	wantIDs := []string{"10", "2", "3"}
	if len(issues) != len(wantIDs) {
		t.Fatalf("got %d issues, want %d: %+v", len(issues), len(wantIDs), issues)
	}
	// Open issues first, newest id first, closed trailing.
	for i, want := range wantIDs {
		if issues[i].ID != want {
			t.Errorf("issue %d id = %q, want %q", i, issues[i].ID, want)
		}
	}
	if issues[2].Status != entity.StatusClosed {
		t.Errorf("issue 3 status = %q, want closed", issues[2].Status)
	}
}

func TestPullErrors(t *testing.T) {
	env := newTestEnv(t)
	env.vault.WriteFile("plain.md", "# Plain note\n")
	env.vault.WriteFile("norepo.md", "---\nmission.type: milestone\nmission.id: \"5\"\n---\n")

	if err := env.rec.Pull(context.Background(), "plain.md"); !errors.Is(err, ErrNotTracked) {
		t.Errorf("got %v, want ErrNotTracked", err)
	}
	if err := env.rec.Pull(context.Background(), "norepo.md"); !errors.Is(err, ErrRepoNotConfigured) {
		t.Errorf("got %v, want ErrRepoNotConfigured", err)
	}
}
