package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("Create and Exists", func(t *testing.T) {
		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.False(t, exists)

		assert.NoError(t, repo.Create(ctx, alice.ID, bob.ID))

		exists, err = repo.Exists(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.True(t, exists)

		// The reverse direction is a separate relation.
		exists, err = repo.Exists(ctx, bob.ID, alice.ID)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate Create converges on one row", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, alice.ID, bob.ID))

		var count int64
		db.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", alice.ID, bob.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Followers and Following agree", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, carol.ID, bob.ID))

		followers, err := repo.Followers(ctx, bob.ID, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, followers, 2)

		following, err := repo.Following(ctx, alice.ID, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, following, 1)
		assert.Equal(t, "bob", following[0].Username)

		followerCount, followingCount, err := repo.Counts(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), followerCount)
		assert.Equal(t, int64(0), followingCount)
	})

	t.Run("Delete reports whether a relation existed", func(t *testing.T) {
		removed, err := repo.Delete(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Delete(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.False(t, removed)
	})
}
