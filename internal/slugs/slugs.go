// Package slugs provides slugification helpers for note filenames.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// NoteSlug converts an entity title to a URL-safe filename component.
// Used by `msn new` to derive the note path from the title.
func NoteSlug(title string) string {
	title = strings.TrimSuffix(title, ".md")
	slugged := goslug.Make(title)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	}
	return slugged
}
