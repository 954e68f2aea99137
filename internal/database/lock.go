package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "harness:lock:"
	lockRetry     = 100 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serialises deployments across processes with a Redis key per network.
type RedisLocker struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLocker creates a locker whose locks expire after ttl.
// Release failures are logged to logger at debug level.
func NewRedisLocker(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

// Lock blocks until the named lock is acquired or ctx is done.
// The returned function releases the lock.
func (l *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	key := lockKeyPrefix + name
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			return func() {
				// release outlives a cancelled deploy context
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				released, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
				switch {
				case err != nil:
					l.logger.Debug("release lock failed",
						slog.String("lock", name),
						slog.Duration("expires_in", l.ttl),
						slog.String("error", err.Error()),
					)
				case released == 0:
					l.logger.Debug("lock expired before release", slog.String("lock", name))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
