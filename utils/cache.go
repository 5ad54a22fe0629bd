package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	checkoutLockPrefix = "checkout:lock:"
	eventLedgerPrefix  = "billing:event:"
)

// NewRedisClient creates a redis client and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// ErrLockNotHeld is returned by Release when the key expired and may now
// belong to another holder.
var ErrLockNotHeld = errors.New("lock no longer held")

// releaseScript deletes the key only while it still holds the caller's token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// LockClient is the part of *redis.Client the lock uses.
type LockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLock is a per-key mutual exclusion built on SETNX with an owner token.
type RedisLock struct {
	client LockClient
	ttl    time.Duration
}

func NewRedisLock(client LockClient, ttl time.Duration) *RedisLock {
	return &RedisLock{client: client, ttl: ttl}
}

// Acquire returns the owner token, or false when another holder owns the key.
func (l *RedisLock) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, checkoutLockPrefix+key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the key if token still owns it.
func (l *RedisLock) Release(ctx context.Context, key, token string) error {
	n, err := l.client.Eval(ctx, releaseScript, []string{checkoutLockPrefix + key}, token).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("release %s: %w", key, ErrLockNotHeld)
	}
	return nil
}

// RedisEventLedger remembers applied provider event ids for a retention window.
type RedisEventLedger struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisEventLedger(client *redis.Client, retention time.Duration) *RedisEventLedger {
	return &RedisEventLedger{client: client, retention: retention}
}

func (l *RedisEventLedger) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := l.client.Exists(ctx, eventLedgerPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	return n > 0, nil
}

func (l *RedisEventLedger) Mark(ctx context.Context, eventID string) error {
	if err := l.client.Set(ctx, eventLedgerPrefix+eventID, time.Now().Unix(), l.retention).Err(); err != nil {
		return fmt.Errorf("failed to mark event %s: %w", eventID, err)
	}
	return nil
}
