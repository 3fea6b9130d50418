package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/pkg/config"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects the Redis client. The cache is optional: with no
// REDIS_ADDR configured every operation becomes a no-op and callers
// fall through to the database.
func Init(cfg *config.Config) error {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	_, err := client.Ping(context.Background()).Result()
	return err
}

// Enabled reports whether a Redis client is connected
func Enabled() bool {
	return client != nil
}

// Get fetches a JSON value into dest. Returns false when the cache is
// disabled or the key is absent.
func Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if client == nil {
		return false, nil
	}
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a JSON-marshaled value with a TTL
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a key
func Delete(ctx context.Context, key string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}
