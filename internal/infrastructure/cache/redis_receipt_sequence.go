package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "pos:"
	// counterTTL outlives the day a counter numbers
	counterTTL = 72 * time.Hour
)

// RedisReceiptSequence keeps daily receipt counters in Redis so several
// registers can share one numbering. Numbers are not returned to the pool
// when a sale rolls back.
type RedisReceiptSequence struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisReceiptSequence creates a sequence on an existing client
func NewRedisReceiptSequence(client redis.UniversalClient, keyPrefix string) *RedisReceiptSequence {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisReceiptSequence{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       counterTTL,
	}
}

// Next increments the counter under key and refreshes its expiry in one
// MULTI/EXEC round trip
func (s *RedisReceiptSequence) Next(ctx context.Context, key string) (int64, error) {
	fullKey := s.keyPrefix + key

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.Expire(ctx, fullKey, s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment receipt counter %s: %w", key, err)
	}
	return incr.Val(), nil
}

// Ping checks that Redis is reachable
func (s *RedisReceiptSequence) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client
func (s *RedisReceiptSequence) Close() error {
	return s.client.Close()
}

// Ensure RedisReceiptSequence implements sales.ReceiptSequence
var _ sales.ReceiptSequence = (*RedisReceiptSequence)(nil)
