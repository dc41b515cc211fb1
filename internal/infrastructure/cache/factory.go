package cache

import (
	"context"
	"fmt"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReceiptSequenceFactory picks the receipt counter backend from configuration
type ReceiptSequenceFactory struct {
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// ReceiptSequenceFactoryOption is a functional option for configuring the factory
type ReceiptSequenceFactoryOption func(*ReceiptSequenceFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReceiptSequenceFactoryOption {
	return func(f *ReceiptSequenceFactory) {
		f.logger = logger
	}
}

// WithFallback controls whether an unreachable Redis falls back to the
// store's own counters. Default is true.
func WithFallback(allow bool) ReceiptSequenceFactoryOption {
	return func(f *ReceiptSequenceFactory) {
		f.allowFallback = allow
	}
}

// NewReceiptSequenceFactory creates a new factory
func NewReceiptSequenceFactory(cfg config.RedisConfig, opts ...ReceiptSequenceFactoryOption) *ReceiptSequenceFactory {
	f := &ReceiptSequenceFactory{
		redisConfig:   cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisSequence connects to Redis and returns a counter on it
func (f *ReceiptSequenceFactory) CreateRedisSequence(ctx context.Context) (*RedisReceiptSequence, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	return NewRedisReceiptSequence(client, defaultKeyPrefix), nil
}

// CreateSequence returns the Redis sequence when Redis is enabled and
// reachable, otherwise fallback. The boolean reports whether Redis is used.
func (f *ReceiptSequenceFactory) CreateSequence(ctx context.Context, fallback sales.ReceiptSequence) (sales.ReceiptSequence, bool, error) {
	if !f.redisConfig.Enabled {
		return fallback, false, nil
	}

	seq, err := f.CreateRedisSequence(ctx)
	if err == nil {
		f.logger.Info("Using Redis receipt counters", zap.String("addr", f.redisConfig.Addr()))
		return seq, true, nil
	}

	if !f.allowFallback || fallback == nil {
		return nil, false, fmt.Errorf("redis required for receipt counters but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to database receipt counters",
		zap.Error(err),
	)
	return fallback, false, nil
}
