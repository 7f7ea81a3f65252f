// Package diff classifies changes between two snapshots of tracked
// entities. The only change signal is the text itself, so create, update,
// and delete are inferred from id presence and field deltas between two
// point-in-time parses.
package diff

import (
	"github.com/aidanlsb/mission/internal/entity"
)

// Change pairs the before and after versions of a changed entity.
type Change[T any] struct {
	Before T
	After  T
}

// Result buckets a diff into additions, removals, and field changes.
type Result[T any] struct {
	Added   []T
	Removed []T
	Changed []Change[T]
}

// Empty reports whether the diff found nothing.
func (r Result[T]) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Collection diffs two entity lists. An after entry with no id is an
// addition (new in the text, not yet resolved remotely). A before entry
// whose id is absent from after is a removal. An after entry whose fields
// differ from the before entry with the same id is a change. Added and
// changed keep after order; removed keeps before order.
func Collection[T any](before, after []T, id func(T) string, equal func(T, T) bool) Result[T] {
	var result Result[T]

	byID := make(map[string]T, len(before))
	for _, b := range before {
		if key := id(b); key != "" {
			byID[key] = b
		}
	}

	afterIDs := make(map[string]bool, len(after))
	for _, a := range after {
		key := id(a)
		if key == "" {
			result.Added = append(result.Added, a)
			continue
		}
		afterIDs[key] = true
		if b, ok := byID[key]; ok && !equal(b, a) {
			result.Changed = append(result.Changed, Change[T]{Before: b, After: a})
		}
	}

	for _, b := range before {
		if key := id(b); key != "" && !afterIDs[key] {
			result.Removed = append(result.Removed, b)
		}
	}

	return result
}

// Singleton diffs a per-note entity that exists at most once: added when
// it appears, removed when it disappears, changed when both sides exist
// and differ. Each bucket holds at most one entry.
func Singleton[T any](before, after *T, equal func(T, T) bool) Result[T] {
	var result Result[T]

	switch {
	case before == nil && after != nil:
		result.Added = append(result.Added, *after)
	case before != nil && after == nil:
		result.Removed = append(result.Removed, *before)
	case before != nil && after != nil && !equal(*before, *after):
		result.Changed = append(result.Changed, Change[T]{Before: *before, After: *after})
	}

	return result
}

// Issues diffs two issue lists with issue identity and equality.
func Issues(before, after []entity.Issue) Result[entity.Issue] {
	return Collection(before, after,
		func(i entity.Issue) string { return i.ID },
		entity.Issue.Equal)
}

// Milestones diffs the tracked milestone of two snapshots.
func Milestones(before, after *entity.Milestone) Result[entity.Milestone] {
	return Singleton(before, after, entity.Milestone.Equal)
}

// Projects diffs the tracked project of two snapshots.
func Projects(before, after *entity.Project) Result[entity.Project] {
	return Singleton(before, after, entity.Project.Equal)
}
