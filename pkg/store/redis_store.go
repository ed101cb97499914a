package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a key only if its current value still matches the
// caller's token, the standard compare-and-delete idiom for a SETNX-based
// lock: a holder whose TTL already expired and was reclaimed by another
// dispatcher must never delete the new holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// RedisStore is the primary Store backend (§6), keyed exactly as
// `game:<roomId>`, `room:<roomId>`, `lock:game:<roomId>`, and
// `user:<userId>:decks`.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore dials url (a redis:// connection string) and returns a
// Store backed by it.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store: parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func gameKey(roomID string) string  { return "game:" + roomID }
func roomKey(roomID string) string  { return "room:" + roomID }
func lockKey(roomID string) string  { return "lock:game:" + roomID }
func decksKey(userID string) string { return "user:" + userID + ":decks" }

func (s *RedisStore) load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) LoadGame(ctx context.Context, roomID string) ([]byte, error) {
	return s.load(ctx, gameKey(roomID))
}

func (s *RedisStore) SaveGame(ctx context.Context, roomID string, data []byte) error {
	return s.client.Set(ctx, gameKey(roomID), data, 0).Err()
}

func (s *RedisStore) DeleteGame(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, gameKey(roomID)).Err()
}

func (s *RedisStore) LoadRoom(ctx context.Context, roomID string) ([]byte, error) {
	return s.load(ctx, roomKey(roomID))
}

func (s *RedisStore) SaveRoom(ctx context.Context, roomID string, data []byte) error {
	return s.client.Set(ctx, roomKey(roomID), data, 0).Err()
}

func (s *RedisStore) DeleteRoom(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, roomKey(roomID)).Err()
}

func (s *RedisStore) LoadDecks(ctx context.Context, userID string) ([]byte, error) {
	return s.load(ctx, decksKey(userID))
}

func (s *RedisStore) SaveDecks(ctx context.Context, userID string, data []byte) error {
	return s.client.Set(ctx, decksKey(userID), data, 0).Err()
}

func (s *RedisStore) AcquireLock(ctx context.Context, roomID, token string) error {
	ok, err := s.client.SetNX(ctx, lockKey(roomID), token, LockTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

func (s *RedisStore) ReleaseLock(ctx context.Context, roomID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{lockKey(roomID)}, token).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
