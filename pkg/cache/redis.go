package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a [RedisCache].
type RedisOptions struct {
	Addr     string        // host:port
	Password string        // optional
	DB       int           // database number
	Prefix   string        // prepended to every key, e.g. "importchain:"
	Timeout  time.Duration // dial/read/write timeout; defaults to 3s
	Retry    RetryPolicy   // connection retries; zero uses DefaultRetry
}

// RedisCache is a [Cache] backed by Redis, suitable for sharing results
// between API replicas and CI jobs.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
// Transient connection failures are retried with backoff.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("%w: redis address is empty", ErrBackend)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	return newRedisCache(ctx, client, opts.Prefix, opts.Retry)
}

func newRedisCache(ctx context.Context, client *redis.Client, prefix string, retry RetryPolicy) (*RedisCache, error) {
	err := retry.Do(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: ping: %v", ErrBackend, err))
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

// Get retrieves a value. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrBackend, err)
	}
	return data, true, nil
}

// Set stores a value with the given ttl (zero keeps it forever).
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrBackend, err)
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrBackend, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
