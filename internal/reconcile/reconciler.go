// Package reconcile drives the note/tracker reconciliation protocol.
//
// A change notification for a note is resolved against the remote tracker
// in three steps: parse the cached and current text into snapshots, diff
// them, then apply each diff entry remotely (create, link by title, update,
// or hide) and write the outcome back into the note. The change cache
// prevents the write-back from being re-diffed as a user edit.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/aidanlsb/mission/internal/diff"
	"github.com/aidanlsb/mission/internal/entity"
	"github.com/aidanlsb/mission/internal/index"
	"github.com/aidanlsb/mission/internal/note"
	"github.com/aidanlsb/mission/internal/notetext"
	"github.com/aidanlsb/mission/internal/paths"
	"github.com/aidanlsb/mission/internal/tracker"
	"github.com/aidanlsb/mission/internal/vault"
)

var (
	// ErrRepoNotConfigured indicates a tracked note without a usable
	// mission.repo property.
	ErrRepoNotConfigured = errors.New("note has no repository configured")

	// ErrNotTracked indicates a note without tracked type and id, required
	// by explicit fetch/update commands.
	ErrNotTracked = errors.New("note does not track a remote entity")
)

// Options configures a Reconciler. Store and VaultPath are required;
// everything else has a usable zero value except Token, without which all
// remote operations fail.
type Options struct {
	Store       vault.Store
	VaultPath   string
	TrackerKind string // default tracker kind when a note does not name one
	Token       string
	BaseURL     string
	AutoSync    bool
	Ledger      *index.Database  // optional sync ledger
	Open        tracker.Opener   // defaults to tracker.Open
	OnNotice    func(msg string) // user-visible prompts (repo guidance)
	Debug       bool
}

// Reconciler owns the change cache and applies note diffs to the remote
// tracker. All entry points are safe for concurrent use; events for the
// same note path are serialized by a per-path lock so overlapping change
// notifications cannot double-create remote entities.
type Reconciler struct {
	store     vault.Store
	vaultPath string
	kind      string
	token     string
	baseURL   string
	autoSync  bool
	ledger    *index.Database
	open      tracker.Opener
	onNotice  func(string)
	debug     bool

	cache     *Cache
	pathLocks sync.Map   // notePath -> *sync.Mutex
	writeMu   sync.Mutex // serializes read-modify-write of note text
}

// New creates a Reconciler with a fresh change cache.
func New(opts Options) *Reconciler {
	open := opts.Open
	if open == nil {
		open = tracker.Open
	}
	return &Reconciler{
		store:     opts.Store,
		vaultPath: opts.VaultPath,
		kind:      opts.TrackerKind,
		token:     opts.Token,
		baseURL:   opts.BaseURL,
		autoSync:  opts.AutoSync,
		ledger:    opts.Ledger,
		open:      open,
		onNotice:  opts.OnNotice,
		debug:     opts.Debug,
		cache:     NewCache(),
	}
}

// HandleChange processes one change notification from the note storage.
// Failures are returned for logging; auto-sync callers must not treat them
// as fatal to the editing session.
func (r *Reconciler) HandleChange(ctx context.Context, path string) error {
	if !paths.IsNote(path) || paths.IsIgnored(r.vaultPath, path) {
		return nil
	}
	if !r.autoSync {
		return nil
	}

	lock := r.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	current, err := r.store.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read changed note: %w", err)
	}

	prev, ok := r.cache.Text(path)
	if !ok {
		// No baseline, no diff. This also re-establishes the baseline
		// after a restart.
		r.cache.SetText(path, current)
		r.logf("baseline cached: %s", path)
		return nil
	}

	return r.reconcile(ctx, path, prev, current, false)
}

// Push reconciles one note now, independent of auto-sync. With no cached
// baseline the note is diffed against empty text, so unresolved entities
// are created and everything else is left alone.
func (r *Reconciler) Push(ctx context.Context, path string) error {
	lock := r.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	current, err := r.store.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}

	prev, _ := r.cache.Text(path)
	return r.reconcile(ctx, path, prev, current, true)
}

// Pull fetches the tracked entity's full issue list from the remote and
// rewrites the note's Issues section. The cache entry is invalidated
// before the write so the self-write is not re-diffed.
func (r *Reconciler) Pull(ctx context.Context, path string) error {
	lock := r.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	current, err := r.store.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}

	snap := note.Parse(current)
	if snap.Type == "" || snap.ID == "" {
		return ErrNotTracked
	}
	if snap.Repo == nil {
		return ErrRepoNotConfigured
	}

	repo, err := r.openRepo(snap)
	if err != nil {
		return err
	}

	var issues []entity.Issue
	switch snap.Type {
	case note.TypeMilestone:
		issues, err = repo.FetchIssuesInMilestone(ctx, snap.ID)
	case note.TypeProject:
		issues, err = repo.FetchIssuesInProject(ctx, snap.ID)
	default:
		return fmt.Errorf("cannot fetch issues for tracked type %q", snap.Type)
	}
	if err != nil {
		return err
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Status != issues[j].Status {
			return issues[i].Status > issues[j].Status
		}
		return repo.CompareIDs(issues[i].ID, issues[j].ID) > 0
	})

	for _, issue := range issues {
		r.cache.SetIssue(issue)
		r.recordIssue(issue, path)
	}

	r.cache.DropText(path)

	updated := notetext.WriteSection(current, note.IssuesHeading, note.FormatIssueList(issues))
	return r.store.Write(path, updated)
}

// reconcile diffs two versions of a note and applies the result remotely.
func (r *Reconciler) reconcile(ctx context.Context, path, prev, current string, explicit bool) error {
	before := note.Parse(prev)
	after := note.Parse(current)

	// A tracked note without a usable repo cannot sync; write guidance
	// into the note once and wait for the user.
	if after.Type != "" && after.Repo == nil {
		if explicit {
			return ErrRepoNotConfigured
		}
		r.writeRepoPlaceholder(path, current)
		r.notice(fmt.Sprintf("set %s in %s to start syncing", note.PropRepo, path))
		r.cache.DropText(path)
		return nil
	}

	issueDiff := diff.Issues(before.Issues, after.Issues)
	milestoneDiff := diff.Milestones(before.TrackedMilestone(), after.TrackedMilestone())
	projectDiff := diff.Projects(before.TrackedProject(), after.TrackedProject())

	// Additions get a remote id written back into the note. Dropping the
	// cache entry first makes that self-write a fresh baseline instead of
	// a user edit.
	if len(issueDiff.Added)+len(milestoneDiff.Added)+len(projectDiff.Added) > 0 {
		r.cache.DropText(path)
	} else {
		r.cache.SetText(path, current)
	}

	if issueDiff.Empty() && milestoneDiff.Empty() && projectDiff.Empty() {
		return nil
	}

	if after.Repo == nil {
		return nil
	}

	repo, err := r.openRepo(after)
	if err != nil {
		return err
	}

	for range milestoneDiff.Removed {
		r.logf("milestone untracked in %s; no remote action defined, skipping", path)
	}
	for range projectDiff.Removed {
		r.logf("project untracked in %s; no remote action defined, skipping", path)
	}

	// Apply operations run concurrently with no ordering guarantee between
	// entity kinds or between individual issues.
	var wg sync.WaitGroup
	var mu sync.Mutex
	var applyErrs []error

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				applyErrs = append(applyErrs, err)
				mu.Unlock()
			}
		}()
	}

	for _, issue := range issueDiff.Added {
		run(func() error { return r.applyNewIssue(ctx, repo, path, issue) })
	}
	for _, issue := range issueDiff.Removed {
		run(func() error { return r.applyRemovedIssue(ctx, repo, issue) })
	}
	for _, change := range issueDiff.Changed {
		run(func() error { return r.applyChangedIssue(ctx, repo, path, change.After) })
	}
	for _, milestone := range milestoneDiff.Added {
		run(func() error { return r.applyNewMilestone(ctx, repo, path, milestone) })
	}
	for _, change := range milestoneDiff.Changed {
		run(func() error { return r.applyChangedMilestone(ctx, repo, path, change.After) })
	}
	for _, project := range projectDiff.Added {
		run(func() error { return r.applyNewProject(ctx, repo, path, project) })
	}
	for _, change := range projectDiff.Changed {
		run(func() error { return r.applyChangedProject(ctx, repo, path, change.After) })
	}

	wg.Wait()
	return errors.Join(applyErrs...)
}

// applyNewIssue resolves an id-less issue: link to an existing remote
// issue with the same title, or create one. The resolved id is written
// back at the issue's title line.
func (r *Reconciler) applyNewIssue(ctx context.Context, repo tracker.Repository, path string, issue entity.Issue) error {
	resolved, err := repo.FetchIssueByTitle(ctx, issue.Title)
	if err != nil {
		return err
	}

	if resolved != nil {
		// Adopt the remote issue; push our milestone if it differs.
		if issue.MilestoneID != "" && issue.MilestoneID != resolved.MilestoneID {
			pushed := issue
			pushed.ID = resolved.ID
			resolved, err = repo.UpdateIssue(ctx, pushed)
			if err != nil {
				return err
			}
		}
	} else {
		resolved, err = repo.CreateIssue(ctx, issue)
		if err != nil {
			return err
		}
	}

	r.cache.SetIssue(*resolved)
	r.recordIssue(*resolved, path)

	if err := r.mutateNote(path, func(text string) (string, error) {
		return note.SetIssueID(text, issue.Title, resolved.ID)
	}); err != nil {
		// The line may have been edited away while remote calls were in
		// flight; the id lands on the next sync.
		r.logf("could not place id %s for %q in %s: %v", resolved.ID, issue.Title, path, err)
	}

	return nil
}

// applyRemovedIssue hides an issue that disappeared from the note.
func (r *Reconciler) applyRemovedIssue(ctx context.Context, repo tracker.Repository, issue entity.Issue) error {
	if _, err := repo.HideIssue(ctx, issue.ID); err != nil {
		return err
	}
	r.cache.DropIssue(issue.ID)
	if r.ledger != nil {
		if err := r.ledger.Remove(index.KindIssue, issue.ID); err != nil {
			r.logf("ledger remove failed for issue %s: %v", issue.ID, err)
		}
	}
	return nil
}

// applyChangedIssue pushes a full field update.
func (r *Reconciler) applyChangedIssue(ctx context.Context, repo tracker.Repository, path string, issue entity.Issue) error {
	updated, err := repo.UpdateIssue(ctx, issue)
	if err != nil {
		return err
	}
	r.cache.SetIssue(*updated)
	r.recordIssue(*updated, path)
	return nil
}

// applyNewMilestone links or creates the milestone a note started
// tracking, then writes type, id, and description back into the note.
func (r *Reconciler) applyNewMilestone(ctx context.Context, repo tracker.Repository, path string, milestone entity.Milestone) error {
	// A snapshot that already carries an id (a push with no cached
	// baseline) keeps it; re-resolving by title could silently relink
	// the note to a different milestone.
	if milestone.ID != "" {
		r.recordEntity(index.KindMilestone, milestone.ID, milestone.Title, string(milestone.Status), path)
		return nil
	}

	if milestone.Title == "" {
		r.notice(fmt.Sprintf("set %s in %s before syncing the tracked milestone", note.PropTitle, path))
		return nil
	}

	resolved, err := repo.FetchMilestoneByTitle(ctx, milestone.Title)
	if err != nil {
		return err
	}
	if resolved == nil {
		resolved, err = repo.CreateMilestone(ctx, milestone)
		if err != nil {
			return err
		}
	}

	r.recordEntity(index.KindMilestone, resolved.ID, resolved.Title, string(resolved.Status), path)

	return r.mutateNote(path, func(text string) (string, error) {
		updated, err := notetext.WriteProperties(text, map[string]string{
			note.PropType:  string(note.TypeMilestone),
			note.PropID:    resolved.ID,
			note.PropTitle: resolved.Title,
		})
		if err != nil {
			return "", err
		}
		return notetext.SetHeadSection(updated, resolved.Description), nil
	})
}

// applyChangedMilestone pushes a milestone field update.
func (r *Reconciler) applyChangedMilestone(ctx context.Context, repo tracker.Repository, path string, milestone entity.Milestone) error {
	updated, err := repo.UpdateMilestone(ctx, milestone)
	if err != nil {
		return err
	}
	r.recordEntity(index.KindMilestone, updated.ID, updated.Title, string(updated.Status), path)
	return nil
}

// applyNewProject mirrors applyNewMilestone for projects.
func (r *Reconciler) applyNewProject(ctx context.Context, repo tracker.Repository, path string, project entity.Project) error {
	if project.ID != "" {
		r.recordEntity(index.KindProject, project.ID, project.Title, string(project.Status), path)
		return nil
	}

	if project.Title == "" {
		r.notice(fmt.Sprintf("set %s in %s before syncing the tracked project", note.PropTitle, path))
		return nil
	}

	resolved, err := repo.FetchProjectByTitle(ctx, project.Title)
	if err != nil {
		return err
	}
	if resolved == nil {
		resolved, err = repo.CreateProject(ctx, project)
		if err != nil {
			return err
		}
	}

	r.recordEntity(index.KindProject, resolved.ID, resolved.Title, string(resolved.Status), path)

	return r.mutateNote(path, func(text string) (string, error) {
		updated, err := notetext.WriteProperties(text, map[string]string{
			note.PropType:  string(note.TypeProject),
			note.PropID:    resolved.ID,
			note.PropTitle: resolved.Title,
		})
		if err != nil {
			return "", err
		}
		return notetext.SetHeadSection(updated, resolved.Description), nil
	})
}

// applyChangedProject pushes a project update, but only once the project
// has a resolved id.
func (r *Reconciler) applyChangedProject(ctx context.Context, repo tracker.Repository, path string, project entity.Project) error {
	if project.ID == "" {
		return nil
	}
	updated, err := repo.UpdateProject(ctx, project)
	if err != nil {
		return err
	}
	r.recordEntity(index.KindProject, updated.ID, updated.Title, string(updated.Status), path)
	return nil
}

// mutateNote performs a serialized read-modify-write of a note's text.
func (r *Reconciler) mutateNote(path string, fn func(text string) (string, error)) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	text, err := r.store.Read(path)
	if err != nil {
		return err
	}
	updated, err := fn(text)
	if err != nil {
		return err
	}
	return r.store.Write(path, updated)
}

// writeRepoPlaceholder inserts the placeholder repo property once, giving
// the next attempt a starting point.
func (r *Reconciler) writeRepoPlaceholder(path, current string) {
	props := notetext.ReadProperties(current)
	if _, has := props[note.PropRepo]; has {
		return
	}
	updated, err := notetext.WriteProperties(current, map[string]string{note.PropRepo: note.PlaceholderRepo})
	if err != nil {
		r.logf("could not write repo placeholder to %s: %v", path, err)
		return
	}
	if err := r.store.Write(path, updated); err != nil {
		r.logf("could not write repo placeholder to %s: %v", path, err)
	}
}

// openRepo opens the tracker repository a snapshot syncs against.
func (r *Reconciler) openRepo(s *note.Snapshot) (tracker.Repository, error) {
	if r.token == "" {
		return nil, tracker.ErrMissingToken
	}
	kind := s.Tracker
	if kind == "" {
		kind = r.kind
	}
	return r.open(kind, tracker.Config{
		Token:   r.token,
		BaseURL: r.baseURL,
		Owner:   s.Repo.Org,
		Repo:    s.Repo.Name,
	})
}

// pathLock returns the per-path mutex that serializes change events for
// one note.
func (r *Reconciler) pathLock(path string) *sync.Mutex {
	lock, _ := r.pathLocks.LoadOrStore(path, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (r *Reconciler) recordIssue(issue entity.Issue, path string) {
	r.recordEntity(index.KindIssue, issue.ID, issue.Title, string(issue.Status), path)
}

func (r *Reconciler) recordEntity(kind, id, title, status, path string) {
	if r.ledger == nil || id == "" {
		return
	}
	err := r.ledger.Record(index.SyncedEntity{
		Kind:     kind,
		ID:       id,
		Title:    title,
		Status:   status,
		NotePath: path,
	})
	if err != nil {
		r.logf("ledger record failed for %s %s: %v", kind, id, err)
	}
}

func (r *Reconciler) notice(msg string) {
	if r.onNotice != nil {
		r.onNotice(msg)
	}
}

func (r *Reconciler) logf(format string, args ...interface{}) {
	if r.debug {
		fmt.Fprintf(os.Stderr, "[msn-sync] "+format+"\n", args...)
	}
}
