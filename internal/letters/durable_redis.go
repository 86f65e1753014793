package letters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"maktub/internal/model"
)

const (
	// RedisCacheKey matches the key the legacy front-end used in
	// localStorage, so deployments can be inspected with the same tooling.
	RedisCacheKey = "letterHistoryCache"

	cacheVersion = 1
)

// durablePayload is the persisted shape: {data, lastFetch, version}.
type durablePayload struct {
	Data      []model.LetterRecord `json:"data"`
	LastFetch int64                `json:"lastFetch"`
	Version   int                  `json:"version"`
}

// RedisStore persists the letter cache in Redis.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context) (*CacheEntry, error) {
	raw, err := s.rdb.Get(ctx, RedisCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	var payload durablePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// corrupt payload reads as absent, and gets dropped so it cannot
		// corrupt the next load
		_ = s.rdb.Del(ctx, RedisCacheKey).Err()
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	if payload.Version != cacheVersion {
		_ = s.rdb.Del(ctx, RedisCacheKey).Err()
		return nil, nil
	}

	return &CacheEntry{
		Value:     payload.Data,
		FetchedAt: time.UnixMilli(payload.LastFetch),
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, entry *CacheEntry) error {
	payload := durablePayload{
		Data:      entry.Value,
		LastFetch: entry.FetchedAt.UnixMilli(),
		Version:   cacheVersion,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := s.rdb.Set(ctx, RedisCacheKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, RedisCacheKey).Err(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
