package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const checkoutLockPrefix = "agrifarma:checkout:lock:"

// releaseScript deletes the lock only while it still holds our token, so a
// holder whose TTL expired cannot free a lock that someone else now owns.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCheckoutLock serializes checkouts per user across instances with SET NX PX
type RedisCheckoutLock struct {
	client       *redis.Client
	ttl          time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewRedisCheckoutLock creates a Redis-backed checkout lock.
// ttl bounds how long a crashed holder keeps the lock.
func NewRedisCheckoutLock(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCheckoutLock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCheckoutLock{
		client:       client,
		ttl:          ttl,
		pollInterval: 50 * time.Millisecond,
		logger:       logger,
	}
}

// Acquire polls SET NX until the lock is taken, wait elapses or ctx is done
func (l *RedisCheckoutLock) Acquire(ctx context.Context, userID uuid.UUID, wait time.Duration) (func(), error) {
	key := checkoutLockPrefix + userID.String()
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		if !time.Now().Before(deadline) {
			return nil, commerce.ErrCheckoutInProgress
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

func (l *RedisCheckoutLock) release(key, token string) {
	// The request context may already be cancelled; the lock must still go.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("failed to release checkout lock, it will expire on its own",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// InMemoryCheckoutLock serializes checkouts per user within one process
type InMemoryCheckoutLock struct {
	mu    sync.Mutex
	slots map[uuid.UUID]chan struct{}
}

// NewInMemoryCheckoutLock creates a process-local checkout lock
func NewInMemoryCheckoutLock() *InMemoryCheckoutLock {
	return &InMemoryCheckoutLock{slots: make(map[uuid.UUID]chan struct{})}
}

func (l *InMemoryCheckoutLock) slot(userID uuid.UUID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[userID] = ch
	}
	return ch
}

// Acquire blocks until the user's slot is free, wait elapses or ctx is done
func (l *InMemoryCheckoutLock) Acquire(ctx context.Context, userID uuid.UUID, wait time.Duration) (func(), error) {
	ch := l.slot(userID)
	release := func() func() {
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }
	}

	select {
	case ch <- struct{}{}:
		return release(), nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return release(), nil
	case <-timer.C:
		return nil, commerce.ErrCheckoutInProgress
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var (
	_ commerce.CheckoutLock = (*RedisCheckoutLock)(nil)
	_ commerce.CheckoutLock = (*InMemoryCheckoutLock)(nil)
)
