package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is the optional read-through layer for upstream analytics
// responses and operator preferences. The dashboard works without it;
// callers hold a nil *RedisCache when Redis is disabled or unreachable.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis. Returns nil when the ping fails so the
// caller can continue uncached.
func NewRedisCache(addr, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis, continuing without cache: %v", err)
		return nil
	}

	log.Println("Connected to Redis successfully")
	return &RedisCache{client: client}
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, jsonData, expiration).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache) SetWithPrefix(ctx context.Context, prefix, key string, value interface{}, expiration time.Duration) error {
	return r.Set(ctx, prefix+":"+key, value, expiration)
}

func (r *RedisCache) GetWithPrefix(ctx context.Context, prefix, key string, dest interface{}) error {
	return r.Get(ctx, prefix+":"+key, dest)
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
