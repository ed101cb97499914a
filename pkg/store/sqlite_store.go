package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the dev-mode Store (DEV_MODE with no REDIS_URL), a
// schema-equivalent JSON-blob-per-row substitute for RedisStore grounded
// on this stack's sqlite schema/upsert style: one row per key, an
// INSERT-OR-REPLACE write path, and a locks table standing in for
// Redis's SETNX-with-TTL semantics.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if missing) the blob-store schema at
// path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := createBlobSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func createBlobSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS locks (
			key TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (s *SQLiteStore) load(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteStore) save(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data, time.Now())
	return err
}

func (s *SQLiteStore) delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM blobs WHERE key = ?`, key)
	return err
}

func (s *SQLiteStore) LoadGame(ctx context.Context, roomID string) ([]byte, error) {
	return s.load(gameKey(roomID))
}

func (s *SQLiteStore) SaveGame(ctx context.Context, roomID string, data []byte) error {
	return s.save(gameKey(roomID), data)
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, roomID string) error {
	return s.delete(gameKey(roomID))
}

func (s *SQLiteStore) LoadRoom(ctx context.Context, roomID string) ([]byte, error) {
	return s.load(roomKey(roomID))
}

func (s *SQLiteStore) SaveRoom(ctx context.Context, roomID string, data []byte) error {
	return s.save(roomKey(roomID), data)
}

func (s *SQLiteStore) DeleteRoom(ctx context.Context, roomID string) error {
	return s.delete(roomKey(roomID))
}

func (s *SQLiteStore) LoadDecks(ctx context.Context, userID string) ([]byte, error) {
	return s.load(decksKey(userID))
}

func (s *SQLiteStore) SaveDecks(ctx context.Context, userID string, data []byte) error {
	return s.save(decksKey(userID), data)
}

// AcquireLock emulates SETNX-with-TTL inside a single transaction: a
// missing or expired row is replaced with the caller's token and a fresh
// deadline; a live row belonging to someone else is contention.
func (s *SQLiteStore) AcquireLock(ctx context.Context, roomID, token string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var expiresAt time.Time
	err = tx.QueryRowContext(ctx, `SELECT expires_at FROM locks WHERE key = ?`, lockKey(roomID)).Scan(&expiresAt)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err == nil && time.Now().Before(expiresAt) {
		return ErrLockHeld
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO locks (key, token, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at
	`, lockKey(roomID), token, time.Now().Add(LockTTL))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ReleaseLock deletes the lock row only if it is still held by token.
func (s *SQLiteStore) ReleaseLock(ctx context.Context, roomID, token string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM locks WHERE key = ? AND token = ?`, lockKey(roomID), token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: lock for %s not held by this token", roomID)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
