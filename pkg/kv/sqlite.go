package kv

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dirPerm = 0o700

// SQLiteStore implements Store on top of a single-file SQLite database.
// This is the default backend for on-device persistence: survives restarts,
// needs no external service, and keeps all cached state in one file the
// caller can delete to reset.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the key-value database in dir.
// The directory is created with owner-only permissions if missing.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	dir = filepath.Clean(dir)
	if dir == "" || dir == "." {
		return nil, ErrStoreDirRequired
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, errors.Join(ErrFailedToOpenStore, err)
	}

	dbPath := filepath.Join(dir, "gatekit_kv.db")
	dsn := dbPath + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenStore, err)
	}
	// modernc sqlite is safest with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(ErrFailedToOpenStore, err, closeErr)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_entries (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrStoreReadFailed, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errors.Join(ErrStoreWriteFailed, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	if err != nil {
		return errors.Join(ErrStoreWriteFailed, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_entries`)
	if err != nil {
		return nil, errors.Join(ErrStoreReadFailed, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Join(ErrStoreReadFailed, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreReadFailed, err)
	}
	return keys, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
