package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "event:idempotency:"

// RedisIdempotencyStore dedupes events across process instances by
// recording processed event IDs as expiring Redis keys.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// RedisConfig holds Redis connection settings for the store.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisIdempotencyStore connects to Redis and verifies the connection
// before returning the store.
func NewRedisIdempotencyStore(cfg RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisIdempotencyStore{client: client, keyPrefix: defaultKeyPrefix}, nil
}

// MarkProcessed records an event ID with a TTL. SETNX makes the
// check-and-set atomic, so concurrent consumers agree on exactly one winner.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+eventID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event processed: %w", err)
	}
	return ok, nil
}

// IsProcessed reports whether the event ID is currently recorded.
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("check event processed: %w", err)
	}
	return n > 0, nil
}

// Close closes the underlying Redis client.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}
