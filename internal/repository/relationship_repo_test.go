package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/matcha/internal/db"
	"github.com/oggyb/matcha/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// createUser registers an activated user through the repository so the
// location and fame rows exist like in production.
func createUser(t *testing.T, gdb *gorm.DB, id uint64, g db.Gender, o db.Orientation, dob time.Time) {
	t.Helper()
	u := &db.User{
		ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("u%d@test.com", id),
		PasswordHash: "x", Gender: g, Orientation: o, DateOfBirth: dob, Status: db.StatusActivated,
	}
	require.NoError(t, repository.NewProfileRepository(gdb).CreateUser(context.Background(), u))
}

func TestSetLike_Idempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewRelationshipRepository(dbase)

	changed, err := repo.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.True(t, changed)

	// already liked → no-op
	changed, err = repo.SetLike(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.False(t, changed)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	reverse, err := repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, reverse)

	changed, err = repo.SetLike(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetLike(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.False(t, changed)

	count, err := repo.CountLikers(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAdjustLikedCount(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	createUser(t, dbase, 1, db.GenderMale, db.OrientationFemale, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := repository.NewRelationshipRepository(dbase)

	require.NoError(t, repo.AdjustLikedCount(ctx, 1, 1))
	require.NoError(t, repo.AdjustLikedCount(ctx, 1, 1))
	require.NoError(t, repo.AdjustLikedCount(ctx, 1, -1))

	n, err := repo.LikedCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Error(t, repo.AdjustLikedCount(ctx, 99, 1), "missing fame row")
}

func TestLikersOf(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewRelationshipRepository(dbase)

	_, _ = repo.SetLike(ctx, 1, 99, true)
	time.Sleep(2 * time.Millisecond)
	_, _ = repo.SetLike(ctx, 2, 99, true)
	_, _ = repo.SetLike(ctx, 99, 3, true)

	likes, err := repo.LikersOf(ctx, 99)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, uint64(2), likes[0].LikerID, "newest first")
	assert.Equal(t, uint64(1), likes[1].LikerID)
}

func TestBlockAndFake(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewRelationshipRepository(dbase)

	changed, err := repo.SetBlock(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repo.SetBlock(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.False(t, changed)

	_, _ = repo.SetBlock(ctx, 1, 3, true)
	_, _ = repo.SetBlock(ctx, 4, 1, true)

	blocked, err := repo.BlockedBy(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, blocked)

	isBlocked, err := repo.IsBlocked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, isBlocked, "blocking is one-directional")

	changed, err = repo.SetFake(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repo.SetFake(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.True(t, changed)

	var fakes int64
	dbase.Model(&db.FakedHistory{}).Count(&fakes)
	assert.Zero(t, fakes)
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewRelationshipRepository(dbase)

	first, err := repo.RecordView(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, first)

	var before db.ViewedHistory
	require.NoError(t, dbase.First(&before, "viewer_id = ? AND viewed_id = ?", 1, 2).Error)

	time.Sleep(5 * time.Millisecond)
	first, err = repo.RecordView(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, first)

	var after db.ViewedHistory
	require.NoError(t, dbase.First(&after, "viewer_id = ? AND viewed_id = ?", 1, 2).Error)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	var rows int64
	dbase.Model(&db.ViewedHistory{}).Count(&rows)
	assert.Equal(t, int64(1), rows)
}
