package utils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLockClient mimics SETNX and the compare-and-delete script.
type memLockClient struct {
	mu   sync.Mutex
	keys map[string]string
}

func (m *memLockClient) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.keys[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (m *memLockClient) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[keys[0]] != args[0] {
		return redis.NewCmdResult(int64(0), nil)
	}
	delete(m.keys, keys[0])
	return redis.NewCmdResult(int64(1), nil)
}

func (m *memLockClient) expire(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	client := &memLockClient{keys: map[string]string{}}
	lock := NewRedisLock(client, time.Second)
	ctx := context.Background()

	token, ok, err := lock.Acquire(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = lock.Acquire(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx, "user-1", token))
	_, ok, err = lock.Acquire(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_ExpiredHolderCannotReleaseNewOwner(t *testing.T) {
	client := &memLockClient{keys: map[string]string{}}
	lock := NewRedisLock(client, time.Second)
	ctx := context.Background()

	first, ok, err := lock.Acquire(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)

	client.expire(checkoutLockPrefix + "user-1")

	second, ok, err := lock.Acquire(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, lock.Release(ctx, "user-1", first), ErrLockNotHeld)
	assert.Equal(t, second, client.keys[checkoutLockPrefix+"user-1"])

	require.NoError(t, lock.Release(ctx, "user-1", second))
	assert.Empty(t, client.keys)
}
