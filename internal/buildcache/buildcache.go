// Package buildcache remembers which chat logs were already rendered so an
// unchanged log is not parsed and rendered again. Rendering is
// deterministic, so the cache only saves work and never changes output.
package buildcache

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

// FormatVersion is mixed into every fingerprint. Bump it when page markup
// changes so that cached pages are regenerated.
const FormatVersion = "1"

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	fingerprint   TEXT NOT NULL,
	name          TEXT NOT NULL,
	message_count INTEGER NOT NULL,
	rendered_at   INTEGER NOT NULL
)`

// Entry is the cached outcome of rendering one chat log.
type Entry struct {
	SessionID    string
	Fingerprint  string
	Name         string
	MessageCount int
	RenderedAt   time.Time
}

// Cache is a SQLite-backed build cache. A nil *Cache is valid and caches
// nothing.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached entry for a session.
func (c *Cache) Get(sessionID string) (Entry, bool, error) {
	if c == nil {
		return Entry{}, false, nil
	}

	var e Entry
	var renderedAt int64
	err := c.db.QueryRow(
		`SELECT id, fingerprint, name, message_count, rendered_at FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&e.SessionID, &e.Fingerprint, &e.Name, &e.MessageCount, &renderedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read cache: %w", err)
	}
	e.RenderedAt = time.Unix(renderedAt, 0)
	return e, true, nil
}

// Lookup returns the cached entry only if its fingerprint matches.
func (c *Cache) Lookup(sessionID, fingerprint string) (Entry, bool, error) {
	e, ok, err := c.Get(sessionID)
	if err != nil || !ok || e.Fingerprint != fingerprint {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Put inserts or replaces a session entry.
func (c *Cache) Put(e Entry) error {
	if c == nil {
		return nil
	}
	if e.RenderedAt.IsZero() {
		e.RenderedAt = time.Now()
	}
	_, err := c.db.Exec(
		`INSERT INTO sessions (id, fingerprint, name, message_count, rendered_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   fingerprint = excluded.fingerprint,
		   name = excluded.name,
		   message_count = excluded.message_count,
		   rendered_at = excluded.rendered_at`,
		e.SessionID, e.Fingerprint, e.Name, e.MessageCount, e.RenderedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Delete removes a session entry.
func (c *Cache) Delete(sessionID string) error {
	if c == nil {
		return nil
	}
	if _, err := c.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Prune removes every entry whose session ID is not in keep.
// Returns the number of entries removed.
func (c *Cache) Prune(keep map[string]bool) (int, error) {
	if c == nil {
		return 0, nil
	}

	rows, err := c.db.Query(`SELECT id FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("list cache: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("list cache: %w", err)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("list cache: %w", err)
	}

	for _, id := range stale {
		if err := c.Delete(id); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// Len returns the number of cached sessions.
func (c *Cache) Len() (int, error) {
	if c == nil {
		return 0, nil
	}
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}

// Fingerprint hashes the file at path together with salt (repository URL,
// site settings) and FormatVersion.
func Fingerprint(path string, salt ...string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for fingerprint: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	h.WriteString("\x00" + FormatVersion)
	for _, s := range salt {
		h.WriteString("\x00" + s)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
