package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KV is the persistence adapter the core reads and writes through. Values are
// raw strings; structured records are JSON-encoded by the caller.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Slot keys, one named slot per chat.
func ThemeKey(chatID int64) string        { return fmt.Sprintf("theme:%d", chatID) }
func SubscriptionKey(chatID int64) string { return fmt.Sprintf("subscription:%d", chatID) }
func RoutineKey(chatID int64) string      { return fmt.Sprintf("routine:%d", chatID) }
func FavoritesKey(chatID int64) string    { return fmt.Sprintf("favorites:%d", chatID) }

// VerseKey caches the verse of the day, shared by all chats.
func VerseKey(date string) string { return fmt.Sprintf("verse:%s", date) }

type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
