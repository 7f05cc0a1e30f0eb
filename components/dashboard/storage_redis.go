package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client used by RedisStorage.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStorage keeps dashboard keys in Redis, optionally namespaced by Prefix.
type RedisStorage struct {
	Client RedisClient
	Prefix string
}

// NewRedisStorage connects to addr and verifies the connection.
func NewRedisStorage(ctx context.Context, addr, password string, db int, prefix string) (*RedisStorage, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("dashboard: connect redis %s: %w", addr, err)
	}
	return &RedisStorage{Client: client, Prefix: prefix}, client, nil
}

// GetItem implements Storage.
func (s *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.Client.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dashboard: redis get %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem implements Storage. Values never expire.
func (s *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.Client.Set(ctx, s.Prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("dashboard: redis set %s: %w", key, err)
	}
	return nil
}
