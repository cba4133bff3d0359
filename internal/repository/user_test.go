package repository

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Role:     models.RoleUser,
	}

	err := repo.Create(ctx, user)
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)

	t.Run("GetByID", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, "alice", fetched.Username)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		fetched, err := repo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		assert.NotNil(t, fetched)
		assert.Equal(t, user.ID, fetched.ID)
	})

	t.Run("GetByUsername missing returns nil, nil", func(t *testing.T) {
		fetched, err := repo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("GetByEmail missing returns nil, nil", func(t *testing.T) {
		fetched, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, fetched)
	})
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	assert.NoError(t, repo.Create(ctx, first))

	dup := &models.User{Username: "bob", Email: "other@example.com", Password: "x"}
	err := repo.Create(ctx, dup)
	assert.Error(t, err)

	var appErr *models.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeDuplicateIdentity, appErr.Code)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.Error(t, err)

	var appErr *models.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestUserRepository_GetProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan1 := createTestUser(t, db, "fan1")
	fan2 := createTestUser(t, db, "fan2")

	assert.NoError(t, followRepo.Create(ctx, fan1.ID, author.ID))
	assert.NoError(t, followRepo.Create(ctx, fan2.ID, author.ID))
	assert.NoError(t, followRepo.Create(ctx, author.ID, fan1.ID))

	t.Run("anonymous viewer", func(t *testing.T) {
		profile, err := repo.GetProfile(ctx, "author", 0)
		assert.NoError(t, err)
		assert.Equal(t, 2, profile.FollowersCount)
		assert.Equal(t, 1, profile.FollowingCount)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("follower viewer", func(t *testing.T) {
		profile, err := repo.GetProfile(ctx, "author", fan1.ID)
		assert.NoError(t, err)
		assert.True(t, profile.IsFollowing)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.GetProfile(ctx, "ghost", 0)
		var appErr *models.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestUserRepository_GetByID_CacheHitKeepsCredentials(t *testing.T) {
	withMiniredis(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "cached")

	// First read warms the cache.
	first, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "hashed-password", first.Password)
	assert.True(t, first.Enabled)

	// Change the row behind the cache's back; the next read must be the cached
	// copy, with the JSON-hidden credential fields still intact.
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("name", "Changed").Error)

	second, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, "Changed", second.Name, "read should have come from the cache")
	assert.Equal(t, "hashed-password", second.Password)
	assert.True(t, second.Enabled)
}

func TestUserRepository_UpdateAfterCachedReadKeepsHash(t *testing.T) {
	withMiniredis(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "editing")

	_, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)

	// Mutating a user loaded from a cache hit must not wipe the stored hash
	// or the enabled flag.
	fetched, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	fetched.Name = "New Name"
	assert.NoError(t, repo.Update(ctx, fetched))

	var stored models.User
	assert.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "hashed-password", stored.Password)
	assert.True(t, stored.Enabled)
}

func TestUserRepository_GetProfile_AnonymousViewCached(t *testing.T) {
	mr := withMiniredis(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	poet := createTestUser(t, db, "poet")
	reader := createTestUser(t, db, "reader")

	profile, err := repo.GetProfile(ctx, "poet", 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, profile.FollowersCount)
	assert.True(t, mr.Exists(cache.ProfileKey("poet")))

	// A follow inserted behind the cache stays invisible to the anonymous
	// view until the key is dropped.
	assert.NoError(t, db.Create(&models.Follow{FollowerID: reader.ID, FolloweeID: poet.ID}).Error)

	stale, err := repo.GetProfile(ctx, "poet", 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, stale.FollowersCount)

	// Signed-in views bypass the shared entry.
	fresh, err := repo.GetProfile(ctx, "poet", reader.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, fresh.FollowersCount)
	assert.True(t, fresh.IsFollowing)

	cache.Invalidate(ctx, cache.ProfileKey("poet"))
	refreshed, err := repo.GetProfile(ctx, "poet", 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, refreshed.FollowersCount)
}
