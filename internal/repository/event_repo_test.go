package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matcha/internal/db"
	"github.com/oggyb/matcha/internal/repository"
)

func TestEmit_NewMessageDedup(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewEventRepository(dbase)

	deduped, err := repo.Emit(ctx, 2, 1, db.EventNewMessage)
	require.NoError(t, err)
	assert.False(t, deduped)

	pending, err := repo.Undelivered(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	firstUpdate := pending[0].UpdatedAt

	time.Sleep(5 * time.Millisecond)
	deduped, err = repo.Emit(ctx, 2, 1, db.EventNewMessage)
	require.NoError(t, err)
	assert.True(t, deduped)

	pending, err = repo.Undelivered(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 1, "one undelivered new_message per (recipient, actor)")
	assert.True(t, pending[0].UpdatedAt.After(firstUpdate))

	// another actor gets its own row
	_, err = repo.Emit(ctx, 2, 3, db.EventNewMessage)
	require.NoError(t, err)

	// once delivered a new message creates a fresh row
	require.NoError(t, repo.MarkDelivered(ctx, []uint64{pending[0].ID}))
	deduped, err = repo.Emit(ctx, 2, 1, db.EventNewMessage)
	require.NoError(t, err)
	assert.False(t, deduped)

	pending, err = repo.Undelivered(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestEmit_OtherTypesAlwaysInsert(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewEventRepository(dbase)

	for i := 0; i < 2; i++ {
		deduped, err := repo.Emit(ctx, 5, 6, db.EventLikedMe)
		require.NoError(t, err)
		assert.False(t, deduped)
	}

	pending, err := repo.Undelivered(ctx, 5)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, db.EventLikedMe, pending[0].Type)
	assert.Equal(t, db.EventStatusNew, pending[0].Status)

	require.NoError(t, repo.MarkDelivered(ctx, nil))
}
