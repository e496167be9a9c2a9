package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a Redis string under a fauna: prefixed
// key, with no expiry. The JSON envelope is the same as FileStore's, so the
// two backends are interchangeable.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, key string, v any) error {
	data, err := r.client.Get(ctx, storeKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get %s failed: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		// Corrupted content reads as absent
		log.Printf("RedisStore %s is malformed, treating as absent: %v", key, err)
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := r.client.Set(ctx, storeKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s failed: %w", key, err)
	}
	return nil
}

func storeKey(key string) string {
	return fmt.Sprintf("fauna:%s", key)
}
