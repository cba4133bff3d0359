package repository

import (
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.Follow{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

// withMiniredis points the global cache client at a miniredis so repository
// tests can exercise the cached read paths. Tests without it run uncached.
func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.GetClient()
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
	})
	return mr
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Content:   "Some content for " + title,
		AuthorID:  authorID,
		Published: true,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create post %s: %v", title, err)
	}
	return post
}
