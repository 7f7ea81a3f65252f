// Package index keeps a per-vault SQLite ledger of entities the
// reconciler has synced. It exists for observation (`msn status`), not
// recovery: the reconciler never reads it to decide what to sync.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Database is the SQLite ledger handle.
type Database struct {
	db *sql.DB
}

// Entity kinds recorded in the ledger.
const (
	KindIssue     = "issue"
	KindMilestone = "milestone"
	KindProject   = "project"
)

// SyncedEntity is one ledger row: the last state an entity was synced in.
type SyncedEntity struct {
	Kind     string
	ID       string
	Title    string
	Status   string
	NotePath string
	SyncedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS synced_entities (
	kind      TEXT NOT NULL,
	id        TEXT NOT NULL,
	title     TEXT NOT NULL,
	status    TEXT NOT NULL DEFAULT '',
	note_path TEXT NOT NULL DEFAULT '',
	synced_at TEXT NOT NULL,
	PRIMARY KEY (kind, id)
);
`

// Open opens or creates the ledger under the vault's .mission directory.
func Open(vaultPath string) (*Database, error) {
	dbDir := filepath.Join(vaultPath, ".mission")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create .mission directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, "index.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close releases the database handle.
func (d *Database) Close() error {
	return d.db.Close()
}

// Record upserts an entity's last-synced state.
func (d *Database) Record(e SyncedEntity) error {
	if e.SyncedAt.IsZero() {
		e.SyncedAt = time.Now()
	}

	_, err := d.db.Exec(`
		INSERT INTO synced_entities (kind, id, title, status, note_path, synced_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			note_path = excluded.note_path,
			synced_at = excluded.synced_at`,
		e.Kind, e.ID, e.Title, e.Status, e.NotePath, e.SyncedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record synced entity: %w", err)
	}
	return nil
}

// Remove deletes an entity from the ledger after it was hidden remotely.
func (d *Database) Remove(kind, id string) error {
	if _, err := d.db.Exec(`DELETE FROM synced_entities WHERE kind = ? AND id = ?`, kind, id); err != nil {
		return fmt.Errorf("failed to remove synced entity: %w", err)
	}
	return nil
}

// List returns all ledger rows, most recently synced first.
func (d *Database) List() ([]SyncedEntity, error) {
	rows, err := d.db.Query(`
		SELECT kind, id, title, status, note_path, synced_at
		FROM synced_entities
		ORDER BY synced_at DESC, kind, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list synced entities: %w", err)
	}
	defer rows.Close()

	var entities []SyncedEntity
	for rows.Next() {
		var e SyncedEntity
		var syncedAt string
		if err := rows.Scan(&e.Kind, &e.ID, &e.Title, &e.Status, &e.NotePath, &syncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan synced entity: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, syncedAt); err == nil {
			e.SyncedAt = t
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}
