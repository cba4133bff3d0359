package cache

import (
	"context"
	"fmt"
	"time"
)

// Single posts are deliberately not cached: every read increments the view
// counter, so serving one from Redis would skip the count.
const (
	UserKeyPrefix    = "user:%d"
	ProfileKeyPrefix = "profile:%s"
	PostsListKey     = "posts:front"
)

const (
	UserTTL     = 5 * time.Minute
	ProfileTTL  = 5 * time.Minute
	PostListTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}
