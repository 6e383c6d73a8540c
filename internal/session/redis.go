package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "portal_session:"

// RedisStore keeps sessions in redis with a TTL, so a portal restart does
// not log every user out.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore wraps a redis client. A nil client yields a nil store;
// callers fall back to the in-memory store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisStore{redis: client, ttl: ttl}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *RedisStore) Create(ctx context.Context, p Principal) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("session: marshal principal: %w", err)
	}
	if err := s.redis.Set(ctx, redisKey(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: store principal: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Principal, error) {
	raw, err := s.redis.Get(ctx, redisKey(sessionID)).Bytes()
	if err == redis.Nil {
		return Principal{}, ErrNotFound
	}
	if err != nil {
		return Principal{}, fmt.Errorf("session: load principal: %w", err)
	}
	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return Principal{}, fmt.Errorf("session: unmarshal principal: %w", err)
	}
	return p, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: delete session: %w", err)
	}
	return nil
}
