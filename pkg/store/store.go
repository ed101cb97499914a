// Package store implements the persistent state layout (§6): a Store
// interface over the three key families the Room Dispatcher needs —
// GameState blobs, Room blobs, and the per-room exclusive lock — with a
// Redis-backed production implementation and a sqlite-backed dev-mode
// implementation.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load* when the requested key does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrLockHeld is returned by AcquireLock when another holder already owns
// the lock and its TTL has not yet expired.
var ErrLockHeld = errors.New("store: lock held")

// LockTTL is the fixed TTL every per-room lock is acquired with (§6:
// "lock:game:<roomId> -> lock token with TTL 5 s").
const LockTTL = 5 * time.Second

// Store is the persistence surface the Room Dispatcher depends on. Every
// method is safe for concurrent use by multiple goroutines; serialization
// of concurrent writers to the same room is the caller's job via
// AcquireLock/ReleaseLock, not this interface's.
type Store interface {
	// LoadGame returns the JSON blob stored at game:<roomId>, or
	// ErrNotFound if no game has been saved for that room yet.
	LoadGame(ctx context.Context, roomID string) ([]byte, error)
	// SaveGame stores data at game:<roomId>, replacing any prior value.
	SaveGame(ctx context.Context, roomID string, data []byte) error
	// DeleteGame removes game:<roomId>.
	DeleteGame(ctx context.Context, roomID string) error

	// LoadRoom returns the JSON blob stored at room:<roomId>.
	LoadRoom(ctx context.Context, roomID string) ([]byte, error)
	// SaveRoom stores data at room:<roomId>.
	SaveRoom(ctx context.Context, roomID string, data []byte) error
	// DeleteRoom removes room:<roomId>.
	DeleteRoom(ctx context.Context, roomID string) error

	// LoadDecks returns the JSON blob stored at user:<userId>:decks.
	LoadDecks(ctx context.Context, userID string) ([]byte, error)
	// SaveDecks stores data at user:<userId>:decks.
	SaveDecks(ctx context.Context, userID string, data []byte) error

	// AcquireLock attempts to take lock:game:<roomId> with the given
	// token and LockTTL, succeeding only if the key is absent or already
	// expired (SETNX-with-TTL semantics). It returns ErrLockHeld on
	// contention.
	AcquireLock(ctx context.Context, roomID, token string) error
	// ReleaseLock releases lock:game:<roomId> if and only if it is still
	// held by token, so a holder whose TTL already expired and was
	// reclaimed by another dispatcher never releases someone else's lock.
	ReleaseLock(ctx context.Context, roomID, token string) error

	// Close releases any underlying connection/handle.
	Close() error
}
