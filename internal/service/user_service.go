package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profiles and the follow graph.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// UpdateProfileInput carries the editable profile fields. Nil pointers leave
// the current value untouched.
type UpdateProfileInput struct {
	UserID          uint
	Name            *string
	Bio             *string
	ProfilePicture  *string
	CurrentPassword string
	NewPassword     string
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// GetProfile returns the public profile for a username, with relation counts
// and, for a signed-in viewer, whether they follow the user.
func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, username, currentUserID)
}

// GetCurrentUser returns the account for an authenticated user ID.
func (s *UserService) GetCurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies profile edits. A password change additionally requires
// the current password to match.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}

	if in.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
			return nil, models.NewUnauthorizedError("Current password is incorrect")
		}
		if err := validation.ValidatePassword(in.NewPassword); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Follow makes followerID follow the user with the given username.
func (s *UserService) Follow(ctx context.Context, followerID uint, username string) error {
	followee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if followee == nil {
		return models.NewNotFoundError("User", username)
	}
	if followee.ID == followerID {
		return models.NewSelfFollowError()
	}

	exists, err := s.followRepo.Exists(ctx, followerID, followee.ID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewAlreadyInRelationError("You already follow this user")
	}

	if err := s.followRepo.Create(ctx, followerID, followee.ID); err != nil {
		return err
	}
	s.invalidateProfiles(ctx, followerID, followee.Username)
	return nil
}

// Unfollow removes the relation from followerID to the named user.
func (s *UserService) Unfollow(ctx context.Context, followerID uint, username string) error {
	followee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if followee == nil {
		return models.NewNotFoundError("User", username)
	}

	removed, err := s.followRepo.Delete(ctx, followerID, followee.ID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotInRelationError("You do not follow this user")
	}
	s.invalidateProfiles(ctx, followerID, followee.Username)
	return nil
}

// invalidateProfiles drops the cached profiles whose counts a follow change
// touches: the followee's followers and the follower's following.
func (s *UserService) invalidateProfiles(ctx context.Context, followerID uint, followeeUsername string) {
	cache.Invalidate(ctx, cache.ProfileKey(followeeUsername))
	if follower, err := s.userRepo.GetByID(ctx, followerID); err == nil {
		cache.Invalidate(ctx, cache.ProfileKey(follower.Username))
	}
}

// Followers lists the users following the named user.
func (s *UserService) Followers(ctx context.Context, username string, limit, offset int) ([]models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.followRepo.Followers(ctx, user.ID, limit, offset)
}

// Following lists the users the named user follows.
func (s *UserService) Following(ctx context.Context, username string, limit, offset int) ([]models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.followRepo.Following(ctx, user.ID, limit, offset)
}
