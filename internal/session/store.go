package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tasknest/internal/cache"
)

const sessionKeyPrefix = "session:"

// Store records live session IDs so logout can revoke a token before it expires.
type Store interface {
	Put(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (userID uint, err error)
	Revoke(ctx context.Context, sessionID string) error
}

// RedisStore is the redis-backed session store.
type RedisStore struct {
	cache *cache.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a session store on top of the shared cache client.
func NewRedisStore(cache *cache.Client) *RedisStore {
	return &RedisStore{cache: cache}
}

// Put records a session with TTL.
func (s *RedisStore) Put(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	payload, err := json.Marshal(map[string]interface{}{"user_id": userID})
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl)
}

// Get returns the user ID bound to a live session.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (uint, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil || data == nil {
		return 0, fmt.Errorf("session not found")
	}

	var sessionData map[string]interface{}
	if err := json.Unmarshal(data, &sessionData); err != nil {
		return 0, fmt.Errorf("unmarshal session data: %w", err)
	}
	uid, ok := sessionData["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user_id in session data")
	}
	return uint(uid), nil
}

// Revoke removes a session.
func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
