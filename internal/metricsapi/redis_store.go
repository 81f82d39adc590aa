package metricsapi

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "ccdash:api:"

// RedisStore shares cached responses between dashboard instances.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

// DialRedis parses a redis:// URL and verifies the server answers.
func DialRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.redis.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis cache read failed")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")
	return data, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.redis.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis cache write failed")
	}
}

func (s *RedisStore) Purge(ctx context.Context) error {
	var removed int64
	iter := s.redis.Scan(ctx, 0, redisKeyPrefix+"*", 500).Iterator()
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.redis.Del(ctx, batch...).Result()
		removed += n
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 500 {
			if err := flush(); err != nil {
				return fmt.Errorf("purge redis cache: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan redis cache: %w", err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("purge redis cache: %w", err)
	}
	log.Info().Int64("entries", removed).Msg("Response cache purged")
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
