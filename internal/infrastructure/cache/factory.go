package cache

import (
	"fmt"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/infrastructure/auth"
	"github.com/agrifarma/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates Redis-backed components, falling back to in-memory ones
// when Redis is disabled or unreachable
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
	connected             bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory components when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient uses an existing Redis client instead of dialing one
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
		f.connected = client != nil
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Client returns the shared Redis client, or nil when running in-memory
func (f *Factory) Client() (*redis.Client, error) {
	if f.connected {
		return f.client, nil
	}
	if !f.redisConfig.Enabled {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis is disabled but in-memory fallback is not allowed")
		}
		f.logger.Info("Redis disabled, using in-memory components")
		f.connected = true
		return nil, nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		// In-memory components do not share state across process instances.
		f.logger.Warn("Redis unavailable, falling back to in-memory components. "+
			"Checkout serialization and token revocation are per-instance only.",
			zap.Error(err),
		)
		f.connected = true
		return nil, nil
	}

	f.logger.Info("connected to Redis", zap.String("addr", f.redisConfig.Addr()))
	f.client = client
	f.connected = true
	return client, nil
}

// CreateCheckoutLock creates the per-user checkout lock
func (f *Factory) CreateCheckoutLock(ttl time.Duration) (commerce.CheckoutLock, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryCheckoutLock(), nil
	}
	return NewRedisCheckoutLock(client, ttl, f.logger.Named("checkout-lock")), nil
}

// CreateTokenBlacklist creates the revoked access token store
func (f *Factory) CreateTokenBlacklist() (auth.TokenBlacklist, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return auth.NewInMemoryTokenBlacklist(), nil
	}
	return auth.NewRedisTokenBlacklist(client), nil
}

// Close closes the Redis client if one was opened
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
