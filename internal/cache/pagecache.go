// Package cache provides SQLite-backed storage for validated page
// markup, so repeated audits of the same URL skip the acquisition
// cascade while the copy is fresh.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the cache database file name inside the cache
// directory.
const dbFileName = "pages.db"

// PageCache stores accepted page bodies keyed by URL with a TTL.
// Only markup that passed response validation is ever written; audit
// reports are never persisted.
//
// Design decision: We use one database file for all cached pages
// rather than one file per host. Cache lookups are single-key and a
// shared file keeps eviction a single DELETE.
type PageCache struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// ttl is how long a cached body stays valid.
	ttl time.Duration

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// Options configures PageCache behavior.
type Options struct {
	// TTL is the freshness window for cached bodies. Zero or negative
	// disables expiry.
	TTL time.Duration

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default cache options.
func DefaultOptions() Options {
	return Options{
		TTL:       15 * time.Minute,
		EnableWAL: true,
	}
}

// Open opens or creates a PageCache in the given directory. The
// directory is created when missing.
func Open(dir string, opts Options) (*PageCache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pc := &PageCache{
		db:  db,
		ttl: opts.TTL,
		now: time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pc.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pc, nil
}

// Close closes the database connection.
func (pc *PageCache) Close() error {
	return pc.db.Close()
}

// createTables creates the cache schema if it doesn't exist.
func (pc *PageCache) createTables() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS pages (
		url        TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		fetched_via TEXT NOT NULL,
		stored_at  INTEGER NOT NULL
	)`
	_, err := pc.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the cached body and the strategy that fetched it.
// Expired entries are deleted on read and report a miss.
func (pc *PageCache) Get(ctx context.Context, url string) (body, via string, ok bool) {
	var storedAt int64
	row := pc.db.QueryRowContext(ctx,
		"SELECT body, fetched_via, stored_at FROM pages WHERE url = ?", url)
	if err := row.Scan(&body, &via, &storedAt); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			// A broken cache must never block an audit.
			return "", "", false
		}
		return "", "", false
	}

	if pc.ttl > 0 && pc.now().Unix()-storedAt > int64(pc.ttl.Seconds()) {
		_, _ = pc.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url)
		return "", "", false
	}
	return body, via, true
}

// Put stores a validated body, replacing any previous copy.
func (pc *PageCache) Put(ctx context.Context, url, body, via string) error {
	_, err := pc.db.ExecContext(ctx,
		`INSERT INTO pages (url, body, fetched_via, stored_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body,
			fetched_via = excluded.fetched_via, stored_at = excluded.stored_at`,
		url, body, via, pc.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}
	return nil
}

// Purge removes every cached page.
func (pc *PageCache) Purge(ctx context.Context) error {
	if _, err := pc.db.ExecContext(ctx, "DELETE FROM pages"); err != nil {
		return fmt.Errorf("failed to purge page cache: %w", err)
	}
	return nil
}
