package orm

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const redisKeyPrefix = "agentic:transcript:"

// RedisTranscriptStore keeps each session as a Redis list of JSON-encoded turns.
type RedisTranscriptStore struct {
	client redis.UniversalClient
}

// NewRedisTranscriptStore connects to url (redis://[:password@]host:port/db) and pings it
func NewRedisTranscriptStore(ctx context.Context, url string) (*RedisTranscriptStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisTranscriptStore{client: client}, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// AppendTurns pushes turns to the end of the session list
func (s *RedisTranscriptStore) AppendTurns(ctx context.Context, sessionID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	now := time.Now()
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		turn.SessionID = sessionID
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = now
		}
		raw, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, raw)
	}
	if err := s.client.RPush(ctx, redisKey(sessionID), values...).Err(); err != nil {
		return fmt.Errorf("failed to append turns to %s: %w", sessionID, err)
	}
	return nil
}

// ListTurns returns the latest limit turns of sessionID, oldest first.
// A non-positive limit returns the whole session.
func (s *RedisTranscriptStore) ListTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raws, err := s.client.LRange(ctx, redisKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list turns of %s: %w", sessionID, err)
	}

	turns := make([]Turn, 0, len(raws))
	for i, raw := range raws {
		var turn Turn
		if err := json.Unmarshal([]byte(raw), &turn); err != nil {
			return nil, fmt.Errorf("decode turn %d of %s: %w", i, sessionID, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// DeleteSession removes every turn of sessionID
func (s *RedisTranscriptStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, redisKey(sessionID)).Err()
}

// Close releases the connection pool
func (s *RedisTranscriptStore) Close() error {
	return s.client.Close()
}
