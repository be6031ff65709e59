package kv

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a single-table SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, ensures the data
// directory exists, and creates the kv table.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL plus a busy timeout so concurrent opens wait instead of failing;
	// synchronous=NORMAL is safe with WAL and avoids an fsync per write.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Get returns the value for key and whether a row exists.
func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *SQLite) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *SQLite) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
