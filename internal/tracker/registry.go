package tracker

import (
	"fmt"
	"sort"
)

// Factory opens a repository connection for one tracker kind.
type Factory func(cfg Config) (Repository, error)

// Opener resolves a kind and opens a repository. Open is the standard
// implementation; the reconciler takes an Opener so tests can inject a
// fake repository.
type Opener func(kind string, cfg Config) (Repository, error)

var factories = map[string]Factory{}

// Register makes a tracker kind available to Open. Called from tracker
// implementation init functions.
func Register(kind string, factory Factory) {
	factories[kind] = factory
}

// Open builds a repository for the given kind. An empty kind selects
// "github".
func Open(kind string, cfg Config) (Repository, error) {
	if kind == "" {
		kind = "github"
	}
	factory, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown tracker kind %q (supported: %v)", kind, Kinds())
	}
	return factory(cfg)
}

// Kinds returns the registered tracker kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
