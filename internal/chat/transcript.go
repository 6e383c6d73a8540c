// Package chat implements the HealthBot widget: the HTTP message exchange,
// the WebSocket channel, and the per-user transcript that survives page
// navigation.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const transcriptKeyPrefix = "chat_transcript:"

// transcriptTTL keeps idle conversations from accumulating forever.
const transcriptTTL = 24 * time.Hour

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user", "assistant", or "error"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptStore persists a user's widget conversation.
type TranscriptStore interface {
	Append(ctx context.Context, userID string, msg Message) error
	List(ctx context.Context, userID string, limit int64) ([]Message, error)
}

// RedisTranscript keeps transcripts in a capped redis list per user.
type RedisTranscript struct {
	redis       *redis.Client
	tracer      trace.Tracer
	maxMessages int64
}

func NewRedisTranscript(redisClient *redis.Client) *RedisTranscript {
	if redisClient == nil {
		return nil
	}
	return &RedisTranscript{
		redis:       redisClient,
		tracer:      otel.Tracer("careportal.internal.chat.transcript"),
		maxMessages: 200,
	}
}

func (s *RedisTranscript) Append(ctx context.Context, userID string, msg Message) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if userID == "" {
		return errors.New("chat: transcript userID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("chat: marshal transcript message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "chat.transcript.append")
	defer span.End()

	key := transcriptKey(userID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, transcriptTTL)
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, -s.maxMessages, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: append transcript message: %w", err)
	}
	return nil
}

func (s *RedisTranscript) List(ctx context.Context, userID string, limit int64) ([]Message, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if userID == "" {
		return nil, errors.New("chat: transcript userID required")
	}

	ctx, span := s.tracer.Start(ctx, "chat.transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}
	raw, err := s.redis.LRange(ctx, transcriptKey(userID), start, -1).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("chat: list transcript: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func transcriptKey(userID string) string {
	return transcriptKeyPrefix + userID
}

// MemoryTranscript is the fallback when no redis is configured. Transcripts
// last for the process lifetime.
type MemoryTranscript struct {
	mu          sync.Mutex
	byUser      map[string][]Message
	maxMessages int
}

func NewMemoryTranscript() *MemoryTranscript {
	return &MemoryTranscript{byUser: make(map[string][]Message), maxMessages: 200}
}

func (s *MemoryTranscript) Append(_ context.Context, userID string, msg Message) error {
	if userID == "" {
		return errors.New("chat: transcript userID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.byUser[userID], msg)
	if s.maxMessages > 0 && len(msgs) > s.maxMessages {
		msgs = msgs[len(msgs)-s.maxMessages:]
	}
	s.byUser[userID] = msgs
	return nil
}

func (s *MemoryTranscript) List(_ context.Context, userID string, limit int64) ([]Message, error) {
	if userID == "" {
		return nil, errors.New("chat: transcript userID required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.byUser[userID]
	if limit > 0 && int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
