package database

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Minute, nil)

	unlock, err := locker.Lock(context.Background(), "hardhat")
	require.NoError(t, err)
	assert.True(t, mr.Exists("harness:lock:hardhat"))
	assert.Equal(t, time.Minute, mr.TTL("harness:lock:hardhat"))

	unlock()
	assert.False(t, mr.Exists("harness:lock:hardhat"))
}

func TestRedisLockerBlocksUntilContextDone(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Minute, nil)

	unlock, err := locker.Lock(context.Background(), "sepolia")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "sepolia")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLockerIndependentNetworks(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Minute, nil)

	a, err := locker.Lock(context.Background(), "hardhat")
	require.NoError(t, err)
	defer a()

	b, err := locker.Lock(context.Background(), "localhost")
	require.NoError(t, err)
	defer b()
}

func TestRedisLockerReleaseKeepsForeignLock(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Minute, nil)

	unlock, err := locker.Lock(context.Background(), "hardhat")
	require.NoError(t, err)

	// lock expired and was taken by another process
	require.NoError(t, mr.Set("harness:lock:hardhat", "someone-else"))

	unlock()
	got, err := mr.Get("harness:lock:hardhat")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLockerRetriesAfterRelease(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedisLocker(client, time.Minute, nil)

	unlock, err := locker.Lock(context.Background(), "hardhat")
	require.NoError(t, err)

	go func() {
		time.Sleep(150 * time.Millisecond)
		unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	again, err := locker.Lock(ctx, "hardhat")
	require.NoError(t, err)
	again()
}

func newDebugLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestRedisLockerLogsFailedRelease(t *testing.T) {
	mr, client := newTestRedis(t)
	logger, logs := newDebugLogger()
	locker := NewRedisLocker(client, time.Minute, logger)

	unlock, err := locker.Lock(context.Background(), "sepolia:MockV3Aggregator")
	require.NoError(t, err)

	mr.Close()
	unlock()

	assert.Contains(t, logs.String(), "release lock failed")
	assert.Contains(t, logs.String(), "lock=sepolia:MockV3Aggregator")
	assert.Contains(t, logs.String(), "expires_in=1m0s")
}

func TestRedisLockerLogsExpiredLock(t *testing.T) {
	mr, client := newTestRedis(t)
	logger, logs := newDebugLogger()
	locker := NewRedisLocker(client, time.Minute, logger)

	unlock, err := locker.Lock(context.Background(), "hardhat")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	unlock()

	assert.Contains(t, logs.String(), "lock expired before release")
	assert.NotContains(t, logs.String(), "release lock failed")
}

func TestRedisLockerQuietRelease(t *testing.T) {
	_, client := newTestRedis(t)
	logger, logs := newDebugLogger()
	locker := NewRedisLocker(client, time.Minute, logger)

	unlock, err := locker.Lock(context.Background(), "hardhat")
	require.NoError(t, err)
	unlock()

	assert.Empty(t, logs.String())
}
