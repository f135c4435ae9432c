package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oggyb/matcha/internal/config"
)

// ErrLockTimeout is returned when a pair lock is still held by someone else
// after the configured wait.
var ErrLockTimeout = errors.New("pair lock wait exceeded")

const lockRetryInterval = 20 * time.Millisecond

// releaseScript deletes the lock only if it still carries our token, so a
// holder whose TTL expired cannot free a lock re-acquired by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	Client *redis.Client

	lockTTL  time.Duration
	lockWait time.Duration
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{
		Client:   redis.NewClient(opts),
		lockTTL:  cfg.Relationship.LockTTL,
		lockWait: cfg.Relationship.LockWait,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForPair generates the lock key for an unordered user pair.
func (c *RedisCache) KeyForPair(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("lock:pair:%d:%d", a, b)
}

// LockPair takes the lock for the unordered pair {a, b} and returns a release
// func. Toggles on the same pair in either direction serialize on it.
//
// Behavior:
//   - SET NX PX with a random token; the lock expires after the configured TTL
//     even if the holder dies.
//   - Retries until the configured wait elapses (ErrLockTimeout) or ctx ends.
//   - release is safe to call once the lock expired; it never deletes a lock
//     taken by another holder.
//
// Example:
//
//	release, err := rc.LockPair(ctx, actorID, targetID)
//	if err != nil { return err }
//	defer release()
func (c *RedisCache) LockPair(ctx context.Context, a, b uint64) (release func(), err error) {
	key := c.KeyForPair(a, b)
	token := uuid.NewString()

	ttl, wait := c.lockTTL, c.lockWait
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if wait <= 0 {
		wait = 2 * time.Second
	}
	deadline := time.Now().Add(wait)

	for {
		ok, err := c.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		// detached from ctx so a canceled request still frees its lock
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, c.Client, []string{key}, token).Err()
	}, nil
}
