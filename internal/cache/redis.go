package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GenerationKey counts committed writes. Readers cache the dictionary under
// the generation they saw before querying, so a snapshot taken before a write
// is never served after it.
const GenerationKey = "vocaboli:generation"

// EntryTTL lets dictionaries of past generations expire.
const EntryTTL = 10 * time.Minute

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// DictionaryKey holds the JSON body of the grouped read endpoint for one
// generation.
func DictionaryKey(generation int64) string {
	return fmt.Sprintf("vocaboli:grouped:%d", generation)
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	// Parse redis URL (redis://host:port or redis://host:port/db)
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Connected to Redis at %s", opts.Addr)
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, EntryTTL).Err()
}

// Generation returns the current write generation, 0 before the first write.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// BumpGeneration is called after each committed write.
func (c *RedisCache) BumpGeneration(ctx context.Context) error {
	return c.client.Incr(ctx, GenerationKey).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
