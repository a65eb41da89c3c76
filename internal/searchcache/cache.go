// Package searchcache persists raw lookup-service search responses in SQLite
// so repeat pipeline runs do not re-query the service for unchanged games.
// An empty path disables the cache; all operations become no-ops.
package searchcache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cache schema version. Bump on schema changes;
// a mismatched cache file is recreated, never migrated.
const schemaVersion = 1

// Cache is a SQLite-backed store of search responses keyed by search name and
// the hide-DLC modifier.
type Cache struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database. An empty path returns a
// disabled cache.
func Open(path string) (*Cache, error) {
	if path == "" {
		return &Cache{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Enabled reports whether the cache is backed by a database.
func (c *Cache) Enabled() bool {
	return c != nil && c.db != nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create cache schema: %w", err)
		}
		if _, err := c.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("cache schema version mismatch: have %d, expected %d (delete %s)", version, schemaVersion, c.path)
	}
	return nil
}

// Get returns the cached payload for a search, if present.
func (c *Cache) Get(ctx context.Context, searchName string, hideDLC bool) ([]byte, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}

	var payload []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT payload FROM search_results WHERE search_name = ? AND hide_dlc = ?",
		searchName, boolToInt(hideDLC),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached search: %w", err)
	}
	return payload, true, nil
}

// Put stores or replaces the cached payload for a search.
func (c *Cache) Put(ctx context.Context, searchName string, hideDLC bool, payload []byte) error {
	if !c.Enabled() {
		return nil
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO search_results (search_name, hide_dlc, payload, fetched_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (search_name, hide_dlc) DO UPDATE SET
             payload = excluded.payload,
             fetched_at = excluded.fetched_at`,
		searchName, boolToInt(hideDLC), payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store cached search: %w", err)
	}
	return nil
}

// Purge removes every cached search. Full runs call this so a refresh cannot
// be satisfied from stale responses.
func (c *Cache) Purge(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM search_results"); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
