// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// cachedUser is the cache round-trip form of a user. models.User hides
// Password and Enabled from JSON, so storing it directly would read back an
// account with an empty hash and a disabled flag.
type cachedUser struct {
	ID             uint        `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Password       string      `json:"password"`
	Name           string      `json:"name"`
	Bio            string      `json:"bio"`
	ProfilePicture string      `json:"profile_picture"`
	Role           models.Role `json:"role"`
	Enabled        bool        `json:"enabled"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		Name:           u.Name,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		Enabled:        u.Enabled,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (c cachedUser) user() *models.User {
	return &models.User{
		ID:             c.ID,
		Username:       c.Username,
		Email:          c.Email,
		Password:       c.Password,
		Name:           c.Name,
		Bio:            c.Bio,
		ProfilePicture: c.ProfilePicture,
		Role:           c.Role,
		Enabled:        c.Enabled,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// cachedProfile adds the relation counts of the anonymous profile view.
type cachedProfile struct {
	cachedUser
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var cu cachedUser

	err := cache.Aside(ctx, cache.UserKey(id), &cu, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		cu = newCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return cu.user(), nil
}

// GetByUsername returns (nil, nil) when no user has the given username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the given email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetProfile loads a user by username with follower/following counts and,
// when currentUserID is set, whether the current user follows them. Only the
// anonymous view is cached; signed-in views carry a per-viewer is_following.
func (r *userRepository) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	if currentUserID != 0 {
		return r.fetchProfile(ctx, username, currentUserID)
	}

	var cp cachedProfile
	err := cache.Aside(ctx, cache.ProfileKey(username), &cp, cache.ProfileTTL, func() error {
		user, err := r.fetchProfile(ctx, username, 0)
		if err != nil {
			return err
		}
		cp = cachedProfile{
			cachedUser:     newCachedUser(user),
			FollowersCount: user.FollowersCount,
			FollowingCount: user.FollowingCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user := cp.user()
	user.FollowersCount = cp.FollowersCount
	user.FollowingCount = cp.FollowingCount
	return user, nil
}

func (r *userRepository) fetchProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	var user models.User

	selectQuery := "users.*, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id) as followers_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) as following_count"

	query := r.db.WithContext(ctx)
	if currentUserID != 0 {
		query = query.Select(selectQuery+
			", EXISTS(SELECT 1 FROM follows WHERE follows.followee_id = users.id AND follows.follower_id = ?) as is_following",
			currentUserID)
	} else {
		query = query.Select(selectQuery)
	}

	if err := query.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateIdentityError("Username or email")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateIdentityError("Username or email")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.Invalidate(ctx, cache.ProfileKey(user.Username))
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}
