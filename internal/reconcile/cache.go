package reconcile

import (
	"sync"

	"github.com/aidanlsb/mission/internal/entity"
)

// Cache holds the last-reconciled text per note and the last-synced issue
// per id. The text map is the feedback suppressor: a write the reconciler
// performs drops the entry first, so the resulting change notification is
// treated as a fresh baseline instead of a user edit. The reconciler owns
// the cache for the life of the process.
type Cache struct {
	mu     sync.Mutex
	texts  map[string]string
	issues map[string]entity.Issue
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		texts:  make(map[string]string),
		issues: make(map[string]entity.Issue),
	}
}

// Text returns the last-reconciled text for a note path.
func (c *Cache) Text(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.texts[path]
	return text, ok
}

// SetText records the last-reconciled text for a note path.
func (c *Cache) SetText(path, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[path] = text
}

// DropText invalidates a note path so the next change notification is
// treated as a first observation.
func (c *Cache) DropText(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.texts, path)
}

// Issue returns the last-synced snapshot of an issue.
func (c *Cache) Issue(id string) (entity.Issue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	issue, ok := c.issues[id]
	return issue, ok
}

// SetIssue records the last-synced snapshot of an issue.
func (c *Cache) SetIssue(issue entity.Issue) {
	if issue.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues[issue.ID] = issue
}

// DropIssue removes an issue from the cache after it was hidden remotely.
func (c *Cache) DropIssue(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.issues, id)
}
