package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_gormProgressRepository_MarkCompleted(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	trailRepo := NewGormStoryTrailRepository()
	repo := NewGormProgressRepository()

	user := createTestUser(t, db, 1)
	trail := newTestTrail(1, "Complete me")
	require.NoError(t, trailRepo.Save(ctx, db, trail))

	t.Run("正常系: 初回は true、2回目以降は false", func(t *testing.T) {
		first, err := repo.MarkCompleted(ctx, db, user.ID, trail.ID)
		require.NoError(t, err)
		assert.True(t, first)

		again, err := repo.MarkCompleted(ctx, db, user.ID, trail.ID)
		require.NoError(t, err)
		assert.False(t, again)

		count, err := repo.CountCompleted(ctx, db, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func Test_gormProgressRepository_CountCompletedAtLevel(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	trailRepo := NewGormStoryTrailRepository()
	repo := NewGormProgressRepository()

	user := createTestUser(t, db, 2)
	l2a := newTestTrail(2, "L2 a")
	l2b := newTestTrail(2, "L2 b")
	l3 := newTestTrail(3, "L3")
	require.NoError(t, trailRepo.Save(ctx, db, l2a))
	require.NoError(t, trailRepo.Save(ctx, db, l2b))
	require.NoError(t, trailRepo.Save(ctx, db, l3))

	_, err := repo.MarkCompleted(ctx, db, user.ID, l2a.ID)
	require.NoError(t, err)
	_, err = repo.MarkCompleted(ctx, db, user.ID, l3.ID)
	require.NoError(t, err)

	count, err := repo.CountCompletedAtLevel(ctx, db, user.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountCompletedAtLevel(ctx, db, user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountCompletedAtLevel(ctx, db, user.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
