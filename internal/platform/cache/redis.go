package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// RedisCache implements Cache on Redis.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	ttls       map[string]time.Duration
}

// NewRedisCache wraps client. Keys are "<prefix>:<namespace>:<key>"; namespaces
// missing from ttls expire after defaultTTL.
func NewRedisCache(client *redis.Client, prefix string, defaultTTL time.Duration, ttls map[string]time.Duration) *RedisCache {
	if ttls == nil {
		ttls = DefaultTTLs
	}
	return &RedisCache{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
		ttls:       ttls,
	}
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, namespace, key string, out any) (bool, error) {
	val, err := c.client.Get(ctx, c.key(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s/%s: %w", namespace, key, err)
	}
	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("cache decode %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s/%s: %w", namespace, key, err)
	}
	if err := c.client.Set(ctx, c.key(namespace, key), data, c.TTL(namespace)).Err(); err != nil {
		return fmt.Errorf("cache set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (c *RedisCache) Evict(ctx context.Context, namespace, key string) error {
	if err := c.client.Del(ctx, c.key(namespace, key)).Err(); err != nil {
		return fmt.Errorf("cache evict %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (c *RedisCache) EvictNamespace(ctx context.Context, namespace string) error {
	pattern := c.prefix + ":" + namespace + ":*"
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache evict namespace %s: %w", namespace, err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan namespace %s: %w", namespace, err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache evict namespace %s: %w", namespace, err)
		}
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// TTL returns the expiry applied to entries of namespace.
func (c *RedisCache) TTL(namespace string) time.Duration {
	if ttl, ok := c.ttls[namespace]; ok {
		return ttl
	}
	return c.defaultTTL
}

func (c *RedisCache) key(namespace, key string) string {
	return c.prefix + ":" + namespace + ":" + key
}
