package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockPrefix = "bookingLock:"

// releaseScript deletes the lock only if it is still held by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockTimeout is returned when a lock could not be acquired before the context ended.
var ErrLockTimeout = errors.New("timed out waiting for booking lock")

// RedisLocker is a KeyLocker shared by every API replica pointing at the same Redis.
// Locks expire after TTL so a crashed holder cannot block a key forever.
type RedisLocker struct {
	Client     *redis.Client
	TTL        time.Duration
	RetryDelay time.Duration
	Logger     *zap.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{Client: client, TTL: ttl, RetryDelay: 25 * time.Millisecond, Logger: logger}
}

// lease is how long a holder may work under the lock. It is a tenth shorter than the
// TTL to cover the SETNX round trip and clock skew against Redis.
func (l *RedisLocker) lease() time.Duration {
	return l.TTL - l.TTL/10
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (context.Context, func(), error) {
	redisKey := lockPrefix + key
	token := uuid.New().String()

	var acquiredAt time.Time
	for {
		attempt := time.Now()
		ok, err := l.Client.SetNX(ctx, redisKey, token, l.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
			}
			return nil, nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			acquiredAt = attempt
			break
		}

		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		case <-time.After(l.RetryDelay):
		}
	}

	held, cancel := context.WithDeadline(ctx, acquiredAt.Add(l.lease()))
	var once sync.Once
	return held, func() {
		once.Do(func() {
			cancel()
			l.release(redisKey, token)
		})
	}, nil
}

// release runs on a fresh context so a cancelled request still frees the key.
func (l *RedisLocker) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	deleted, err := releaseScript.Run(ctx, l.Client, []string{redisKey}, token).Int()
	if err != nil {
		l.Logger.Warn("Failed to release booking lock, it will expire on its own",
			zap.String("key", redisKey), zap.Duration("ttl", l.TTL), zap.Error(err))
		return
	}
	if deleted == 0 {
		l.Logger.Warn("Booking lock expired before release", zap.String("key", redisKey))
	}
}
