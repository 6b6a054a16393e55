// Package store provides a SQLite-backed cache for parsed usage datasets,
// so repeated sweeps over the same export skip CSV re-parsing.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guimove/ptufit/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached dataset for filePath when the stored mtime and
// size still match; ok is false on any mismatch or miss.
func (c *Cache) Lookup(filePath string, mtimeNs, sizeBytes int64) (*model.Dataset, bool, error) {
	var name string
	var storedMtime, storedSize int64
	err := c.db.QueryRow(
		"SELECT name, mtime_ns, size_bytes FROM datasets WHERE file_path = ?", filePath,
	).Scan(&name, &storedMtime, &storedSize)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if storedMtime != mtimeNs || storedSize != sizeBytes {
		return nil, false, nil
	}

	rows, err := c.db.Query(
		"SELECT ts, input_tokens, output_tokens FROM requests WHERE file_path = ? ORDER BY seq", filePath,
	)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rows.Close() }()

	ds := &model.Dataset{Name: name}
	for rows.Next() {
		var ts string
		var req model.Request
		if err := rows.Scan(&ts, &req.InputTokens, &req.OutputTokens); err != nil {
			return nil, false, err
		}
		req.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, false, fmt.Errorf("corrupt cached timestamp %q: %w", ts, err)
		}
		ds.Requests = append(ds.Requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(ds.Requests) == 0 {
		return nil, false, nil
	}

	return ds, true, nil
}

// Save stores a parsed dataset and its file tracking info, replacing any
// previous entry for the same path.
func (c *Cache) Save(filePath string, ds *model.Dataset, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT OR REPLACE INTO datasets
		(file_path, name, mtime_ns, size_bytes, requests, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		filePath, ds.Name, mtimeNs, sizeBytes, len(ds.Requests),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM requests WHERE file_path = ?", filePath); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO requests
		(file_path, seq, ts, input_tokens, output_tokens)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range ds.Requests {
		_, err = stmt.Exec(filePath, i, r.Timestamp.UTC().Format(time.RFC3339Nano), r.InputTokens, r.OutputTokens)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Clear drops all cached datasets.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM datasets"); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM requests")
	return err
}
