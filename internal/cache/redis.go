package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// RedisCache stores results as JSON strings with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis connects to a Redis server; a zero ttl keeps entries forever
func NewRedis(addr, password string, db int, ttl time.Duration, logger *slog.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisFromClient(rdb, ttl, logger)
}

// NewRedisFromClient wraps an existing client
func NewRedisFromClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get loads a result, returning ErrMiss when the key is absent
func (r *RedisCache) Get(ctx context.Context, key string) (*layout.PageResult, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		r.logger.Error("Redis GET failed", "key", key, "err", err)
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}
	return decode(data)
}

// Set stores a result under key
func (r *RedisCache) Set(ctx context.Context, key string, result *layout.PageResult) error {
	data, err := encode(result)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Redis SET failed", "key", key, "err", err)
		return fmt.Errorf("failed to cache result: %w", err)
	}
	r.logger.Debug("Redis SET succeeded", "key", key, "bytes", len(data))
	return nil
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (r *RedisCache) Close() error {
	return r.client.Close()
}
