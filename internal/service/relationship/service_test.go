package relationship_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/matcha/internal/cache"
	"github.com/oggyb/matcha/internal/config"
	"github.com/oggyb/matcha/internal/db"
	svcErr "github.com/oggyb/matcha/internal/errors"
	"github.com/oggyb/matcha/internal/repository"
	"github.com/oggyb/matcha/internal/service/relationship"
)

type fixture struct {
	svc   *relationship.Service
	db    *gorm.DB
	rels  *repository.RelationshipRepository
	cache *cache.RedisCache
}

// setupService builds the service on in-memory sqlite and miniredis with
// users:
//
//	1, 2, 3  activated, with pictures
//	4        activated, no picture
//	5        not activated, with picture
func setupService(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	profiles := repository.NewProfileRepository(gdb)
	for id := uint64(1); id <= 5; id++ {
		status := db.StatusActivated
		if id == 5 {
			status = db.StatusNew
		}
		u := &db.User{
			ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("u%d@test.com", id),
			PasswordHash: "x", Gender: db.GenderFemale, Orientation: db.OrientationBisexual,
			DateOfBirth: time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC), Status: status,
		}
		require.NoError(t, profiles.CreateUser(ctx, u))
		if id != 4 {
			require.NoError(t, profiles.AddPicture(ctx, &db.Picture{UserID: id, Path: fmt.Sprintf("/p/%d.jpg", id), IsProfile: true}))
		}
	}

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{
		Redis:        config.RedisConfig{Addr: mr.Addr()},
		Relationship: config.RelationshipConfig{LockTTL: 5 * time.Second, LockWait: 2 * time.Second},
	}
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		svc:   relationship.NewGormService(gdb, rc, log),
		db:    gdb,
		rels:  repository.NewRelationshipRepository(gdb),
		cache: rc,
	}
}

func (f *fixture) likedCount(t *testing.T, id uint64) int64 {
	t.Helper()
	n, err := f.rels.LikedCount(context.Background(), id)
	require.NoError(t, err)
	return n
}

func (f *fixture) assertCounterDerived(t *testing.T, ids ...uint64) {
	t.Helper()
	for _, id := range ids {
		likers, err := f.rels.CountLikers(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, likers, f.likedCount(t, id), "liked_count of user %d", id)
	}
}

func (f *fixture) events(t *testing.T, recipient uint64) map[db.EventType]int {
	t.Helper()
	var rows []db.Event
	require.NoError(t, f.db.Where("recipient_id = ?", recipient).Find(&rows).Error)
	out := map[db.EventType]int{}
	for _, ev := range rows {
		out[ev.Type]++
	}
	return out
}

func TestSetLike_OnOffRestoresCounter(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	res, err := f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.Equal(t, relationship.LikeResult{Changed: true}, res)
	assert.Equal(t, int64(1), f.likedCount(t, 2))
	assert.Equal(t, map[db.EventType]int{db.EventLikedMe: 1}, f.events(t, 2))

	// already on: no-op, no extra event
	res, err = f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, int64(1), f.likedCount(t, 2))
	assert.Equal(t, 1, f.events(t, 2)[db.EventLikedMe])

	res, err = f.svc.SetLike(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Zero(t, f.likedCount(t, 2))

	res, err = f.svc.SetLike(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Zero(t, f.likedCount(t, 2))

	f.assertCounterDerived(t, 1, 2)
}

func TestSetLike_MutualConnectsAndDisconnects(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	res, err := f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.False(t, res.Connected)

	res, err = f.svc.SetLike(ctx, 2, 1, true)
	require.NoError(t, err)
	assert.True(t, res.Connected)

	for _, id := range []uint64{1, 2} {
		assert.Equal(t, map[db.EventType]int{db.EventLikedMe: 1, db.EventConnected: 1}, f.events(t, id), "user %d", id)
	}

	// re-like while connected reports the state without new events
	res, err = f.svc.SetLike(ctx, 2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, relationship.LikeResult{Changed: false, Connected: true}, res)

	res, err = f.svc.SetLike(ctx, 2, 1, false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Connected)

	for _, id := range []uint64{1, 2} {
		assert.Equal(t, map[db.EventType]int{db.EventLikedMe: 1, db.EventConnected: 1, db.EventDisconnected: 1}, f.events(t, id), "user %d", id)
	}
	f.assertCounterDerived(t, 1, 2)
}

func TestSetLike_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	cases := []struct {
		name          string
		actor, target uint64
		msg           string
	}{
		{"self", 1, 1, "cannot like yourself"},
		{"target without picture", 1, 4, "user 4 has no profile picture"},
		{"actor without picture", 4, 1, "user 4 has no profile picture"},
		{"target not activated", 1, 5, "user 5 is not activated"},
		{"target missing", 1, 99, "user 99 does not exist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SetLike(ctx, tc.actor, tc.target, true)
			require.Error(t, err)
			assert.ErrorIs(t, err, svcErr.ErrConflict)
			assert.Equal(t, tc.msg, err.Error())
		})
	}

	var edges int64
	require.NoError(t, f.db.Model(&db.LikedHistory{}).Count(&edges).Error)
	assert.Zero(t, edges)
	f.assertCounterDerived(t, 1, 4, 5)
}

type failingTx struct {
	relationship.Tx
}

func (failingTx) Emit(context.Context, uint64, uint64, db.EventType) (bool, error) {
	return false, errors.New("event sink down")
}

type failingStore struct {
	relationship.Store
}

func (s failingStore) InTx(ctx context.Context, fn func(tx relationship.Tx) error) error {
	return s.Store.InTx(ctx, func(tx relationship.Tx) error {
		return fn(failingTx{tx})
	})
}

func TestSetLike_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	svc := relationship.NewService(failingStore{relationship.NewGormStore(f.db)}, f.cache, nil)

	_, err := svc.SetLike(ctx, 1, 2, true)
	require.Error(t, err)
	assert.Zero(t, svcErr.KindOf(err))

	liked, err := f.rels.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, f.likedCount(t, 2))
}

func TestSetLike_ConcurrentTogglesKeepCounter(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor, target := uint64(1), uint64(2)
			if i%3 == 0 {
				actor, target = target, actor
			}
			_, err := f.svc.SetLike(ctx, actor, target, i%2 == 0)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	f.assertCounterDerived(t, 1, 2)
}

func TestSetLike_LockTimeout(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	release, err := f.cache.LockPair(ctx, 2, 1)
	require.NoError(t, err)
	defer release()

	deadline, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = f.svc.SetLike(deadline, 1, 2, true)
	require.Error(t, err)
	assert.Zero(t, f.likedCount(t, 2))
}

func TestSetBlockAndFake(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	changed, err := f.svc.SetBlock(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.svc.SetBlock(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.False(t, changed)

	blocked, err := f.rels.IsBlocked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, blocked)

	changed, err = f.svc.SetFake(ctx, 1, 4, true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.svc.SetBlock(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = f.svc.SetBlock(ctx, 3, 3, true)
	assert.ErrorIs(t, err, svcErr.ErrConflict)
	_, err = f.svc.SetFake(ctx, 3, 99, true)
	assert.ErrorIs(t, err, svcErr.ErrConflict)

	assert.Empty(t, f.events(t, 2))
	assert.Empty(t, f.events(t, 4))
}

func TestView(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	first, err := f.svc.View(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = f.svc.View(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, map[db.EventType]int{db.EventViewedMe: 1}, f.events(t, 2))

	first, err = f.svc.View(ctx, 3, 3)
	require.NoError(t, err)
	assert.False(t, first)

	var views int64
	require.NoError(t, f.db.Model(&db.ViewedHistory{}).Count(&views).Error)
	assert.Equal(t, int64(1), views)

	_, err = f.svc.View(ctx, 1, 5)
	assert.ErrorIs(t, err, svcErr.ErrConflict)
}

func TestNotifyMessageAndPoll(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.NotifyMessage(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrConflict)

	_, err = f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	_, err = f.svc.SetLike(ctx, 2, 1, true)
	require.NoError(t, err)

	deduped, err := f.svc.NotifyMessage(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, deduped)

	deduped, err = f.svc.NotifyMessage(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, deduped)

	events, err := f.svc.PollEvents(ctx, 2)
	require.NoError(t, err)
	var types []db.EventType
	for _, ev := range events {
		types = append(types, ev.Type)
		assert.Equal(t, db.EventStatusDelivered, ev.Status)
	}
	assert.Equal(t, []db.EventType{db.EventLikedMe, db.EventConnected, db.EventNewMessage}, types)

	events, err = f.svc.PollEvents(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, events)

	// the pending message was delivered, so a new one is inserted
	deduped, err = f.svc.NotifyMessage(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, deduped)
	assert.Equal(t, 2, f.events(t, 2)[db.EventNewMessage])
}

func TestNotifyMessage_ConcurrentKeepsOnePending(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	_, err = f.svc.SetLike(ctx, 2, 1, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var fresh atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deduped, err := f.svc.NotifyMessage(ctx, 1, 2)
			assert.NoError(t, err)
			if !deduped {
				fresh.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fresh.Load())
	var pending int64
	require.NoError(t, f.db.Model(&db.Event{}).
		Where("recipient_id = ? AND actor_id = ? AND type = ? AND status = ?", 2, 1, db.EventNewMessage, db.EventStatusNew).
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)
}

func TestNotifyMessage_WaitsForPairLock(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	_, err = f.svc.SetLike(ctx, 2, 1, true)
	require.NoError(t, err)

	release, err := f.cache.LockPair(ctx, 2, 1)
	require.NoError(t, err)
	defer release()

	deadline, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = f.svc.NotifyMessage(deadline, 1, 2)
	require.Error(t, err)
	assert.Zero(t, f.events(t, 2)[db.EventNewMessage])
}

func TestFameAndLikers(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	_, err = f.svc.SetLike(ctx, 3, 2, true)
	require.NoError(t, err)

	// 2 likes over 5 users
	rating, err := f.svc.Fame(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rating.Stars)
	assert.Equal(t, int64(2), rating.LikedCount)

	likers, err := f.svc.Likers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, likers, 2)
	assert.Equal(t, uint64(3), likers[0].LikerID)
	assert.Equal(t, uint64(1), likers[1].LikerID)

	_, err = f.svc.Fame(ctx, 99)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
	_, err = f.svc.Likers(ctx, 99)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}
