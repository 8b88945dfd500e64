// Package cache provides redis-backed caching of rendered pages. Mutating
// actions call Revalidate with the page path they touched, mirroring the
// cache-invalidation signal the presentation layer expects. Invalidation
// only affects rendering freshness, never data correctness, so failures
// are logged and dropped.
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "page:"

// Store is the page cache consumed by handlers and services.
type Store interface {
	// Get returns the cached payload for key, or false when absent.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a payload under key with a TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
	// Revalidate drops every cached entry whose key starts with path.
	Revalidate(path string)
}

// Redis implements Store on a redis client.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a redis-backed page cache.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// NewRedisWithClient creates a page cache from an existing redis client.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) key(k string) string {
	return keyPrefix + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache: get %s: %v", key, err)
		return nil, false
	}
	return payload, true
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, r.key(key), payload, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

// Revalidate is fire-and-forget: a failed delete leaves a stale page until
// its TTL expires, which callers tolerate.
func (r *Redis) Revalidate(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.key(path)+"*", 100).Result()
		if err != nil {
			log.Printf("cache: revalidate %s: %v", path, err)
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("cache: revalidate %s: %v", path, err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// Close releases the underlying redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop satisfies Store when no redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
func (Noop) Revalidate(string)                                  {}
