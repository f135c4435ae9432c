package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matcha/internal/cache"
	"github.com/oggyb/matcha/internal/config"
)

func setupCache(t *testing.T, ttl, wait time.Duration) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Relationship.LockTTL = ttl
	cfg.Relationship.LockWait = wait

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestKeyForPair_Unordered(t *testing.T) {
	rc, _ := setupCache(t, time.Second, time.Second)
	assert.Equal(t, "lock:pair:3:9", rc.KeyForPair(9, 3))
	assert.Equal(t, rc.KeyForPair(3, 9), rc.KeyForPair(9, 3))
}

func TestLockPair_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t, time.Second, 50*time.Millisecond)

	release, err := rc.LockPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:pair:1:2"))

	// reverse direction shares the lock
	_, err = rc.LockPair(ctx, 2, 1)
	assert.ErrorIs(t, err, cache.ErrLockTimeout)

	release()
	assert.False(t, mr.Exists("lock:pair:1:2"))

	release2, err := rc.LockPair(ctx, 2, 1)
	require.NoError(t, err)
	release2()
}

func TestLockPair_ReleaseDoesNotStealForeignLock(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t, time.Second, 50*time.Millisecond)

	release, err := rc.LockPair(ctx, 4, 5)
	require.NoError(t, err)

	// lock expires and someone else takes it
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:pair:4:5", "other-holder"))

	release()
	got, err := mr.Get("lock:pair:4:5")
	require.NoError(t, err)
	assert.Equal(t, "other-holder", got)
}

func TestLockPair_Serializes(t *testing.T) {
	ctx := context.Background()
	rc, _ := setupCache(t, time.Second, 2*time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := rc.LockPair(ctx, 7, 8)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInside))
}

func TestLockPair_ContextCanceled(t *testing.T) {
	rc, _ := setupCache(t, time.Second, 5*time.Second)

	release, err := rc.LockPair(context.Background(), 1, 2)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = rc.LockPair(ctx, 1, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
